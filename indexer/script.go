package indexer

import (
	"fmt"
	"sort"
	"strings"
)

// metaMarker prefixes document keys that carry metadata rather than
// entity properties. Scripts must never touch them; the id in
// particular stays scalar.
const metaMarker = "@"

// scriptFor builds the painless script that merges a partial document
// into its stored counterpart: for every property key, initialize the
// field when the stored document lacks it, otherwise append each value
// that is not already present. Values are passed as script parameters
// named after the property's query variable.
func (ix *Indexer) scriptFor(doc *Document) (string, error) {
	keys := make([]string, 0, len(doc.Props))
	for k := range doc.Props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var script []string
	for _, key := range keys {
		if strings.HasPrefix(key, metaMarker) {
			continue
		}
		p, ok := ix.byKey[key]
		if !ok {
			return "", fmt.Errorf("no property resolves to document key %q", key)
		}
		script = append(script,
			fmt.Sprintf("if (! ctx._source.containsKey('%s')) {", key),
			fmt.Sprintf("  ctx._source['%s'] = [params.%s]", key, p.Variable),
			fmt.Sprintf("} else if (! ctx._source['%s'].contains(params.%s)) {", key, p.Variable),
			fmt.Sprintf("  ctx._source['%s'].add(params.%s)", key, p.Variable),
			"}",
		)
	}
	return strings.Join(script, "\n"), nil
}
