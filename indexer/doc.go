package indexer

import (
	"encoding/json"
	"fmt"
)

// Document is the denormalized document built for one entity. Every
// property key maps to a deduplicated list of values; the id is always
// scalar. An empty value list records that the property was bound but
// null, which is distinct from the property being absent.
type Document struct {
	ID    string
	Types []string
	Props map[string][]string
}

func NewDocument(id string) *Document {
	return &Document{ID: id, Props: make(map[string][]string)}
}

// JSONLD returns the document in its flattened JSON-LD shape. Value
// lists come back as []interface{}, the element type JSON-LD processors
// accept, and a nil list still yields an empty array in the output.
func (d *Document) JSONLD() map[string]interface{} {
	m := make(map[string]interface{}, len(d.Props)+2)
	m["@id"] = d.ID
	if len(d.Types) > 0 {
		m["@type"] = asList(d.Types)
	}
	for k, v := range d.Props {
		m[k] = asList(v)
	}
	return m
}

func asList(vals []string) []interface{} {
	out := make([]interface{}, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}

func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.JSONLD())
}

// Merge combines two sightings of the same entity into one document.
// Values of old keep their positions and values of new are appended
// unless already present, so the result does not depend on how the
// sightings were split between the two rows. The ids must match; a
// mismatch is a programming error.
func Merge(old, new *Document) *Document {
	if old.ID != new.ID {
		panic(fmt.Sprintf("indexer: merge of distinct entities %q and %q", old.ID, new.ID))
	}
	types := unionValues(old.Types, new.Types)
	if len(types) == 0 {
		types = nil
	}
	merged := &Document{
		ID:    old.ID,
		Types: types,
		Props: make(map[string][]string, len(old.Props)),
	}
	for k, v := range old.Props {
		merged.Props[k] = unionValues(v, nil)
	}
	for k, v := range new.Props {
		merged.Props[k] = unionValues(merged.Props[k], v)
	}
	return merged
}

// unionValues appends the values of add that vals does not contain yet.
func unionValues(vals, add []string) []string {
	out := make([]string, 0, len(vals)+len(add))
	out = append(out, vals...)
	for _, v := range add {
		if !contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

func contains(vals []string, v string) bool {
	for _, s := range vals {
		if s == v {
			return true
		}
	}
	return false
}
