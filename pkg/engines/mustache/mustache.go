// Package mustache adapts github.com/cbroglie/mustache.
package mustache

import (
	"context"

	mustachepkg "github.com/cbroglie/mustache"

	"github.com/goliatone/go-tplworker/pkg/engine"
)

// Engine renders logic-less mustache templates.
type Engine struct {
	name string
}

var _ engine.Engine = (*Engine)(nil)

// New constructs a mustache engine.
func New(name string) *Engine {
	return &Engine{name: name}
}

// Name implements engine.Engine.
func (e *Engine) Name() string { return e.name }

// Render implements engine.Engine.
func (e *Engine) Render(_ context.Context, tpl string) (string, error) {
	tmpl, err := mustachepkg.ParseString(tpl)
	if err != nil {
		return "", engine.Wrap("mustache: parse", err)
	}
	out, err := tmpl.Render(map[string]any{})
	if err != nil {
		return "", engine.Wrap("mustache: render", err)
	}
	return out, nil
}
