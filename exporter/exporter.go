// Package exporter writes indexing instructions as newline delimited
// JSON-LD documents instead of sending them to a cluster.
package exporter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/piprate/json-gold/ld"

	"github.com/skolemgraph/skolem/indexer"
)

// Writer implements indexer.Sink by appending one compacted JSON-LD
// document per line. The configured prefixes become the @context of
// every line, so each line stands on its own.
//
// A file has no stored document to merge into, so an upsert is written
// as its own line and consumers union duplicate subjects themselves.
// A property bound only to nulls is dropped from the export.
type Writer struct {
	enc     *json.Encoder
	proc    *ld.JsonLdProcessor
	opts    *ld.JsonLdOptions
	context map[string]interface{}
	n       int
}

func NewWriter(w io.Writer, prefixes map[string]string) *Writer {
	context := make(map[string]interface{}, len(prefixes))
	for p, ns := range prefixes {
		context[p] = ns
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	opts := ld.NewJsonLdOptions("")
	return &Writer{
		enc:     enc,
		proc:    ld.NewJsonLdProcessor(),
		opts:    opts,
		context: context,
	}
}

func (w *Writer) Write(ctx context.Context, in indexer.Instruction) error {
	var doc *indexer.Document
	switch in := in.(type) {
	case indexer.Replace:
		doc = in.Doc
	case indexer.Upsert:
		doc = in.Doc
	default:
		return fmt.Errorf("unsupported instruction %T", in)
	}
	src := doc.JSONLD()
	for k, v := range src {
		if vals, ok := v.([]interface{}); ok && len(vals) == 0 {
			delete(src, k)
		}
	}
	src["@context"] = w.context
	compact, err := w.proc.Compact(src, w.context, w.opts)
	if err != nil {
		return fmt.Errorf("compact %s: %v", doc.ID, err)
	}
	w.n++
	return w.enc.Encode(compact)
}

// Flush implements indexer.Sink; lines are written eagerly.
func (w *Writer) Flush(ctx context.Context) error { return nil }

// Count reports how many documents were written so far.
func (w *Writer) Count() int { return w.n }
