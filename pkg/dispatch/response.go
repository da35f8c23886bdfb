package dispatch

import (
	"sort"
	"strings"

	"github.com/goliatone/go-tplworker/pkg/engine"
)

// Response maps engine names to rendered output or a marked failure message.
type Response map[string]string

// Names returns the engine names in the response, sorted.
func (r Response) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Failed reports whether the named engine's value is a failure.
func (r Response) Failed(name string) bool {
	return strings.HasPrefix(r[name], engine.FailureMarker)
}
