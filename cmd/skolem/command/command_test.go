package command

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skolemgraph/skolem/version"
)

const testConfig = `prefixes:
  foaf: http://xmlns.com/foaf/0.1/
  dct: http://purl.org/dc/terms/

sparql:
  uri: http://localhost:9999/sparql
  limit: 10

indexes:
  entities:
    person:
      type: foaf:Person
      properties:
        - foaf:name
  documents:
    document:
      type: foaf:Document
      properties:
        - dct:title
`

func writeConfig(t *testing.T) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "skolem.yaml")
	require.NoError(t, os.WriteFile(file, []byte(testConfig), 0644))
	return file
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestQueryCommand(t *testing.T) {
	file := writeConfig(t)
	out, err := run(t, "query", "--config", file)
	require.NoError(t, err)
	require.Contains(t, out, "# documents / document")
	require.Contains(t, out, "# entities / person")
	require.Contains(t, out, "PREFIX foaf: <http://xmlns.com/foaf/0.1/>")
	require.Contains(t, out, "{ ?id a foaf:Person . }")
	require.Contains(t, out, "LIMIT 10")
	// Indexes print in name order.
	require.Less(t, strings.Index(out, "# documents"), strings.Index(out, "# entities"))
}

func TestQueryCommandTypeFilter(t *testing.T) {
	file := writeConfig(t)
	out, err := run(t, "query", "--config", file, "--index", "entities", "--type", "person")
	require.NoError(t, err)
	require.Contains(t, out, "foaf:Person")
	require.NotContains(t, out, "foaf:Document")
}

func TestTypeFilterRequiresIndex(t *testing.T) {
	file := writeConfig(t)
	_, err := run(t, "query", "--config", file, "--type", "person")
	require.EqualError(t, err, "--type requires --index")
}

func TestUnknownIndex(t *testing.T) {
	file := writeConfig(t)
	_, err := run(t, "query", "--config", file, "--index", "nope")
	require.EqualError(t, err, `no index named "nope" is configured`)
}

func TestCheckCommand(t *testing.T) {
	file := writeConfig(t)
	out, err := run(t, "check", "--config", file)
	require.NoError(t, err)
	require.Equal(t, "configuration ok: 2 indexes, 2 document types\n", out)
}

func TestMissingConfigFile(t *testing.T) {
	_, err := run(t, "check", "--config", "/does/not/exist.yaml")
	require.EqualError(t, err, `cannot find specified configuration file "/does/not/exist.yaml"`)
}

func TestConfigFromEnv(t *testing.T) {
	file := writeConfig(t)
	t.Setenv("SKOLEM_CFG", file)
	out, err := run(t, "check")
	require.NoError(t, err)
	require.Contains(t, out, "configuration ok")
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "skolem "+version.Version)
}
