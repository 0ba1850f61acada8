package indexer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cayleygraph/quad/voc/rdfs"

	"github.com/skolemgraph/skolem/owl"
)

// Query assembles the SELECT query for the indexer's index and document
// type. Required properties are emitted before optional ones, which
// documents the query's intent and keeps the text reproducible.
func (ix *Indexer) Query() string {
	var lines []string
	if h := ix.prefixHeader(); h != "" {
		lines = append(lines, h)
	}
	lines = append(lines, "SELECT *", "WHERE {")

	if ix.tc.Graph != "" {
		lines = append(lines, fmt.Sprintf(" GRAPH <%s> {", ix.tc.Graph))
	}
	if ix.tc.Type != "" {
		lines = append(lines, fmt.Sprintf("   { ?%s a %s . }", idVar, ix.tc.Type))
		if ix.tc.ExpandSubclasses() {
			lines = append(lines, "   UNION {")
			lines = append(lines, fmt.Sprintf("     ?%s a ?%s .", idVar, subClassVar))
			if ix.tc.TransitiveSubclasses() {
				lines = append(lines, fmt.Sprintf("     ?%s a %s .", subClassVar, owl.Class))
				lines = append(lines, fmt.Sprintf("     ?%s %s+ %s .", subClassVar, rdfs.SubClassOf, ix.tc.Type))
			} else {
				lines = append(lines, fmt.Sprintf("     ?%s %s %s .", subClassVar, rdfs.SubClassOf, ix.tc.Type))
			}
			lines = append(lines, "   }")
		}
	}
	for _, p := range ix.props {
		lines = append(lines, propertyPattern(p))
	}

	if ix.tc.Graph != "" {
		lines = append(lines, " }")
	}
	lines = append(lines, "}")
	if ix.cfg.SPARQL.Limit > 0 {
		lines = append(lines, fmt.Sprintf("LIMIT %d", ix.cfg.SPARQL.Limit))
	}
	return strings.Join(lines, "\n")
}

// prefixHeader emits PREFIX lines for the configured namespaces, sorted
// by prefix so the query text does not depend on map order. The rdfs
// and owl prefixes are filled in when subclass expansion needs them and
// the configuration left them out.
func (ix *Indexer) prefixHeader() string {
	prefixes := make(map[string]string, len(ix.cfg.Prefixes))
	for p, ns := range ix.cfg.Prefixes {
		prefixes[p] = ns
	}
	if ix.tc.ExpandSubclasses() {
		if _, ok := prefixes["rdfs"]; !ok {
			prefixes["rdfs"] = rdfs.NS
		}
		if _, ok := prefixes["owl"]; !ok && ix.tc.TransitiveSubclasses() {
			prefixes["owl"] = owl.NS
		}
	}
	names := make([]string, 0, len(prefixes))
	for p := range prefixes {
		names = append(names, p)
	}
	sort.Strings(names)
	lines := make([]string, 0, len(names))
	for _, p := range names {
		lines = append(lines, fmt.Sprintf("PREFIX %s: <%s>", p, prefixes[p]))
	}
	return strings.Join(lines, "\n")
}

func propertyPattern(p Property) string {
	pattern := fmt.Sprintf("    ?%s %s ?%s .", idVar, p.SPARQL, p.Variable)
	if !p.Required {
		return fmt.Sprintf("    OPTIONAL { %s }", strings.TrimSpace(pattern))
	}
	return pattern
}
