package engine

import (
	"strings"
)

// Selection is the result of narrowing a registry with an inclusion list.
type Selection struct {
	// Active holds the engines that will serve requests.
	Active Set
	// Unknown lists requested names with no registered engine, in request
	// order. They are dropped from the active set, never reported as errors.
	Unknown []string
}

// Select narrows the registry to the names in filter, a comma separated list
// matched case-insensitively with surrounding whitespace ignored. An empty
// filter (or one holding only separators) selects every engine.
func (r *Registry) Select(filter string) Selection {
	tokens := parseTokenList(filter)
	if len(tokens) == 0 {
		return Selection{Active: r.All()}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	selected := make([]Engine, 0, len(tokens))
	var unknown []string
	for _, token := range tokens {
		e, ok := r.engines[token]
		if !ok {
			unknown = append(unknown, token)
			continue
		}
		selected = append(selected, e)
	}
	return Selection{Active: newSet(selected), Unknown: unknown}
}

// SelectNames is Select for callers that already split the list.
func (r *Registry) SelectNames(names []string) Selection {
	return r.Select(strings.Join(names, ","))
}

func normaliseToken(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func parseTokenList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' })
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		if token := normaliseToken(part); token != "" {
			tokens = append(tokens, token)
		}
	}
	return dedupe(tokens)
}

func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if _, exists := seen[value]; exists {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
