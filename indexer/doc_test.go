package indexer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMergeUnionsValues(t *testing.T) {
	old := NewDocument("e")
	old.Types = []string{"foaf:Person"}
	old.Props["foaf:name"] = []string{"a"}
	old.Props["title"] = []string{}

	upd := NewDocument("e")
	upd.Types = []string{"foaf:Person", "schema:Person"}
	upd.Props["foaf:name"] = []string{"b", "a"}
	upd.Props["mbox"] = []string{"mailto:a@example.org"}

	m := Merge(old, upd)
	require.Equal(t, []string{"foaf:Person", "schema:Person"}, m.Types)
	require.Equal(t, []string{"a", "b"}, m.Props["foaf:name"])
	require.Equal(t, []string{}, m.Props["title"])
	require.Equal(t, []string{"mailto:a@example.org"}, m.Props["mbox"])

	// Inputs stay untouched.
	require.Equal(t, []string{"a"}, old.Props["foaf:name"])
	require.Equal(t, []string{"b", "a"}, upd.Props["foaf:name"])
}

func TestMergeIdempotent(t *testing.T) {
	d := NewDocument("e")
	d.Types = []string{"T"}
	d.Props["k"] = []string{"v", "w"}

	m := Merge(d, d)
	require.Equal(t, d.Types, m.Types)
	require.Equal(t, d.Props, m.Props)
}

func TestMergeOrderInsensitiveContents(t *testing.T) {
	a := NewDocument("e")
	a.Props["k"] = []string{"1", "2"}
	b := NewDocument("e")
	b.Props["k"] = []string{"2", "3"}

	ab := Merge(a, b)
	ba := Merge(b, a)
	require.ElementsMatch(t, ab.Props["k"], ba.Props["k"])
	require.Equal(t, []string{"1", "2", "3"}, ab.Props["k"])
	require.Equal(t, []string{"2", "3", "1"}, ba.Props["k"])
}

func TestMergeDistinctIDsPanics(t *testing.T) {
	require.Panics(t, func() {
		Merge(NewDocument("a"), NewDocument("b"))
	})
}

func TestDocumentJSON(t *testing.T) {
	d := NewDocument("http://example.org/e")
	d.Types = []string{"foaf:Person"}
	d.Props["foaf:name"] = []string{"Alice"}
	d.Props["mbox"] = []string{}

	data, err := json.Marshal(d)
	require.NoError(t, err)
	require.JSONEq(t, `{"@id":"http://example.org/e","@type":["foaf:Person"],"foaf:name":["Alice"],"mbox":[]}`, string(data))

	bare := NewDocument("e")
	data, err = json.Marshal(bare)
	require.NoError(t, err)
	require.JSONEq(t, `{"@id":"e"}`, string(data))
}
