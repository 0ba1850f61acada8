package indexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScriptText(t *testing.T) {
	ix, err := New(testConfig(), "entities", "person")
	require.NoError(t, err)

	doc := NewDocument("e")
	doc.Props["foaf:name"] = []string{"x"}
	s, err := ix.scriptFor(doc)
	require.NoError(t, err)
	require.Equal(t, nameScript(), s)
}

func TestScriptSortsKeysAndSkipsMetadata(t *testing.T) {
	ix, err := New(testConfig(), "entities", "person")
	require.NoError(t, err)

	doc := NewDocument("e")
	doc.Props["title"] = []string{"t"}
	doc.Props["foaf:name"] = []string{"x"}
	doc.Props["@graph"] = []string{"g"}
	s, err := ix.scriptFor(doc)
	require.NoError(t, err)
	require.NotContains(t, s, "@graph")
	require.Less(t, strings.Index(s, "'foaf:name'"), strings.Index(s, "'title'"))
}

func TestScriptUnknownKey(t *testing.T) {
	ix, err := New(testConfig(), "entities", "person")
	require.NoError(t, err)

	doc := NewDocument("e")
	doc.Props["mystery"] = []string{"x"}
	_, err = ix.scriptFor(doc)
	require.EqualError(t, err, `no property resolves to document key "mystery"`)
}
