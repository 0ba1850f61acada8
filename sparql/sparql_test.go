package sparql

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `{
  "head": { "vars": [ "id", "name", "homepage", "age", "note", "friend" ] },
  "results": {
    "bindings": [
      {
        "id": { "type": "uri", "value": "http://example.org/alice" },
        "name": { "type": "literal", "value": "Alice", "xml:lang": "en" },
        "age": { "type": "literal", "value": "42", "datatype": "http://www.w3.org/2001/XMLSchema#integer" },
        "friend": { "type": "bnode", "value": "b0" }
      },
      {
        "id": { "type": "uri", "value": "http://example.org/bob" },
        "name": { "type": "literal", "value": "Bob" },
        "note": null
      }
    ]
  }
}`

func serve(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 30*time.Second)
}

func TestSelect(t *testing.T) {
	var gotAccept string
	var gotParams url.Values
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotParams = r.URL.Query()
		w.Header().Set("Content-Type", "application/sparql-results+json")
		w.Write([]byte(sampleResponse))
	})

	ctx := context.Background()
	rows, err := c.Select(ctx, "SELECT * WHERE { ?s ?p ?o }")
	require.NoError(t, err)
	defer rows.Close()

	require.Equal(t, Accept, gotAccept)
	require.Equal(t, "SELECT * WHERE { ?s ?p ?o }", gotParams.Get("query"))
	require.Equal(t, "30000", gotParams.Get("timeout"))

	require.True(t, rows.Next(ctx))
	b := rows.Binding()
	require.Equal(t, quad.IRI("http://example.org/alice"), b["id"].Value)
	require.Equal(t, quad.LangString{Value: "Alice", Lang: "en"}, b["name"].Value)
	require.Equal(t, quad.TypedString{Value: "42", Type: "http://www.w3.org/2001/XMLSchema#integer"}, b["age"].Value)
	require.Equal(t, quad.BNode("b0"), b["friend"].Value)
	_, bound := b["homepage"]
	require.False(t, bound, "unbound optional should be absent")

	require.True(t, rows.Next(ctx))
	b = rows.Binding()
	require.Equal(t, quad.String("Bob"), b["name"].Value)
	note, bound := b["note"]
	require.True(t, bound, "null binding should be present")
	require.Nil(t, note)

	require.False(t, rows.Next(ctx))
	require.NoError(t, rows.Err())
	require.Equal(t, []string{"id", "name", "homepage", "age", "note", "friend"}, rows.Vars())
}

func TestSelectEndpointError(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "parse error at line 1", http.StatusBadRequest)
	})

	_, err := c.Select(context.Background(), "SELECT")
	require.Error(t, err)
	require.Contains(t, err.Error(), "400")
	require.Contains(t, err.Error(), "parse error at line 1")
}

func TestSelectNoResults(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"head": {"vars": []}}`))
	})

	rows, err := c.Select(context.Background(), "SELECT")
	require.NoError(t, err)
	defer rows.Close()

	require.False(t, rows.Next(context.Background()))
	require.Error(t, rows.Err())
	require.Contains(t, rows.Err().Error(), "no results")
}

func TestNextContextCancel(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleResponse))
	})

	rows, err := c.Select(context.Background(), "SELECT")
	require.NoError(t, err)
	defer rows.Close()

	ctx, cancel := context.WithCancel(context.Background())
	require.True(t, rows.Next(ctx))
	cancel()
	require.False(t, rows.Next(ctx))
	require.Equal(t, context.Canceled, rows.Err())
}

func TestQueryURL(t *testing.T) {
	c := NewClient("http://localhost:3030/ds/sparql", 0)
	addr, err := c.QueryURL("SELECT * WHERE { ?s ?p ?o }")
	require.NoError(t, err)

	u, err := url.Parse(addr)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(addr, "http://localhost:3030/ds/sparql?"))
	require.Equal(t, "SELECT * WHERE { ?s ?p ?o }", u.Query().Get("query"))
	require.Equal(t, "60000", u.Query().Get("timeout"), "default timeout should be 60s")
}
