// Package owl contains constants of the Web Ontology Language (OWL)
package owl

import "github.com/cayleygraph/quad/voc"

func init() {
	voc.RegisterPrefix(Prefix, NS)
}

const (
	NS     = `http://www.w3.org/2002/07/owl#`
	Prefix = `owl:`
)

const (
	// Classes

	// The class of OWL classes.
	Class = Prefix + "Class"
	// The class of OWL individuals.
	Thing = Prefix + "Thing"
	// The class of object properties.
	ObjectProperty = Prefix + "ObjectProperty"
	// The class of data properties.
	DatatypeProperty = Prefix + "DatatypeProperty"
)
