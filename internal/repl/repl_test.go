package repl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBalanced(t *testing.T) {
	cases := []struct {
		code string
		want bool
	}{
		{"SELECT * WHERE { ?s ?p ?o }", true},
		{"SELECT * WHERE {", false},
		{"SELECT * WHERE { ?s ?p ?o .", false},
		{"SELECT * WHERE { FILTER(?n > 3) }", true},
		{`SELECT * WHERE { ?s ?p "{" }`, true},
		{"SELECT * WHERE { ?s ?p <http://example.org/{x}> }", true},
		{`SELECT * WHERE { ?s ?p "unterminated`, false},
	}
	for _, c := range cases {
		require.Equal(t, c.want, balanced(c.code), c.code)
	}
}

func TestSplitLine(t *testing.T) {
	cmd, args := splitLine(":gen entities person")
	require.Equal(t, ":gen", cmd)
	require.Equal(t, " entities person", args)

	cmd, args = splitLine("exit")
	require.Equal(t, "exit", cmd)
	require.Equal(t, "", args)
}
