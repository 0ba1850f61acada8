package indexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSkolemizerStableWithinRun(t *testing.T) {
	s := NewSkolemizer()
	a := s.Resolve("b0")
	require.True(t, strings.HasPrefix(a, "urn:uuid:"))
	require.Equal(t, a, s.Resolve("b0"))
	require.NotEqual(t, a, s.Resolve("b1"))
}

func TestSkolemizerFreshPerInstance(t *testing.T) {
	a := NewSkolemizer().Resolve("b0")
	b := NewSkolemizer().Resolve("b0")
	require.NotEqual(t, a, b)
}
