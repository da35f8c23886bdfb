package engine

import (
	"sort"
	"strings"
)

// Set is an immutable, name-sorted collection of engines. It is safe to share
// between goroutines without locking.
type Set struct {
	engines []Engine
}

// NewSet builds a Set from the supplied engines. Nil entries are dropped.
func NewSet(engines ...Engine) Set {
	return newSet(engines)
}

func newSet(engines []Engine) Set {
	out := make([]Engine, 0, len(engines))
	for _, e := range engines {
		if e != nil {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Name() < out[j].Name()
	})
	return Set{engines: out}
}

// Len returns the number of engines in the set.
func (s Set) Len() int { return len(s.engines) }

// At returns the engine at index i.
func (s Set) At(i int) Engine { return s.engines[i] }

// Names returns the engine names in order.
func (s Set) Names() []string {
	names := make([]string, len(s.engines))
	for i, e := range s.engines {
		names[i] = e.Name()
	}
	return names
}

// String renders the set as a comma separated name list.
func (s Set) String() string {
	return strings.Join(s.Names(), ", ")
}
