package sparql

import (
	"encoding/json"
	"fmt"

	"github.com/cayleygraph/quad"
)

// Binding maps query variable names to the terms bound in one result row.
// A variable left unbound by an optional match is absent from the map; a
// variable bound to a null placeholder maps to a nil entry.
type Binding map[string]*Value

// Value is one RDF term of a result row, decoded from the SPARQL 1.1
// Query Results JSON Format term object.
type Value struct {
	quad.Value
}

func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		v.Value = nil
		return nil
	}
	var raw struct {
		Type     string  `json:"type"`
		Value    *string `json:"value"`
		Datatype string  `json:"datatype"`
		Lang     string  `json:"xml:lang"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Value == nil {
		v.Value = nil
		return nil
	}
	switch raw.Type {
	case "uri":
		v.Value = quad.IRI(*raw.Value)
	case "bnode":
		v.Value = quad.BNode(*raw.Value)
	case "literal", "typed-literal":
		switch {
		case raw.Lang != "":
			v.Value = quad.LangString{Value: quad.String(*raw.Value), Lang: raw.Lang}
		case raw.Datatype != "":
			v.Value = quad.TypedString{Value: quad.String(*raw.Value), Type: quad.IRI(raw.Datatype)}
		default:
			v.Value = quad.String(*raw.Value)
		}
	default:
		return fmt.Errorf("sparql: unsupported term type %q", raw.Type)
	}
	return nil
}

// Text returns the lexical form of a term without any syntax quoting.
func Text(v quad.Value) string {
	switch v := v.(type) {
	case nil:
		return ""
	case quad.IRI:
		return string(v)
	case quad.BNode:
		return string(v)
	case quad.String:
		return string(v)
	case quad.LangString:
		return string(v.Value)
	case quad.TypedString:
		return string(v.Value)
	default:
		return v.String()
	}
}
