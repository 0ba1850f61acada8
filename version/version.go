package version

var (
	Version = "0.2.0"

	// git hash should be filled by:
	// 	go build -ldflags="-X github.com/skolemgraph/skolem/version.GitHash=xxxx"

	GitHash   = "dev snapshot"
	BuildDate string
)
