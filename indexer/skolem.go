package indexer

import "github.com/pborman/uuid"

// Skolemizer assigns synthetic identifiers to blank nodes. Blank node
// labels are only stable within one result set, so every indexing run
// owns its own Skolemizer and the assignment is never reused across
// runs. The map is unbounded; distinct blank nodes are assumed to be
// few relative to rows.
type Skolemizer struct {
	ids map[string]string
}

func NewSkolemizer() *Skolemizer {
	return &Skolemizer{ids: make(map[string]string)}
}

// Resolve returns the identifier assigned to a blank node label,
// assigning a fresh urn:uuid on first sight. Resolving the same label
// twice within a run yields the same identifier.
func (s *Skolemizer) Resolve(label string) string {
	if id, ok := s.ids[label]; ok {
		return id
	}
	id := uuid.NewRandom().URN()
	s.ids[label] = id
	mBlankNodes.Inc()
	return id
}
