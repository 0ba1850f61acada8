package elastic

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skolemgraph/skolem/indexer"
)

type bulkAction map[string]struct {
	Index string `json:"_index"`
	Type  string `json:"_type"`
	ID    string `json:"_id"`
}

func TestWriterReplaceRequest(t *testing.T) {
	w := NewWriter(nil, 10)
	doc := indexer.NewDocument("http://example.org/e")
	doc.Types = []string{"foaf:Person"}
	doc.Props["foaf:name"] = []string{"Alice"}

	err := w.Write(context.Background(), indexer.Replace{
		Target: indexer.Ref{Index: "entities", Type: "person", ID: doc.ID},
		Doc:    doc,
	})
	require.NoError(t, err)
	require.Len(t, w.buf, 1)

	lines, err := w.buf[0].Source()
	require.NoError(t, err)
	require.Len(t, lines, 2)

	var action bulkAction
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &action))
	require.Equal(t, "entities", action["index"].Index)
	require.Equal(t, "person", action["index"].Type)
	require.Equal(t, "http://example.org/e", action["index"].ID)
	require.JSONEq(t, `{"@id":"http://example.org/e","@type":["foaf:Person"],"foaf:name":["Alice"]}`, lines[1])
}

func TestWriterUpsertRequest(t *testing.T) {
	w := NewWriter(nil, 10)
	doc := indexer.NewDocument("http://example.org/e")
	doc.Props["foaf:name"] = []string{"Alice"}
	doc.Props["mbox"] = []string{}

	err := w.Write(context.Background(), indexer.Upsert{
		Target: indexer.Ref{Index: "entities", Type: "person", ID: doc.ID},
		Script: "if (! ctx._source.containsKey('foaf:name')) { }",
		Params: map[string]interface{}{"name": "Alice", "mbox": nil},
		Doc:    doc,
	})
	require.NoError(t, err)
	require.Len(t, w.buf, 1)

	lines, err := w.buf[0].Source()
	require.NoError(t, err)
	require.Len(t, lines, 2)

	var action bulkAction
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &action))
	require.Equal(t, "http://example.org/e", action["update"].ID)

	var body struct {
		Script json.RawMessage        `json:"script"`
		Upsert map[string]interface{} `json:"upsert"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &body))
	require.Contains(t, string(body.Script), "containsKey")

	var scr struct {
		Params map[string]interface{} `json:"params"`
	}
	require.NoError(t, json.Unmarshal(body.Script, &scr))
	require.Equal(t, "Alice", scr.Params["name"])
	v, ok := scr.Params["mbox"]
	require.True(t, ok)
	require.Nil(t, v)

	require.Equal(t, "http://example.org/e", body.Upsert["@id"])
	require.Equal(t, []interface{}{}, body.Upsert["mbox"])
}

func TestWriterFlushEmpty(t *testing.T) {
	w := NewWriter(nil, 10)
	require.NoError(t, w.Flush(context.Background()))
}
