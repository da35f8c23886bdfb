package engine

import (
	"context"
)

// Engine renders a template string with an empty data context. Engines are
// treated as opaque: any parse or execution problem is reported through the
// returned error. Implementations must release transient resources (temp
// files, directories) before Render returns.
type Engine interface {
	Name() string
	Render(ctx context.Context, template string) (string, error)
}

// RenderFunc is the function form of Engine.Render.
type RenderFunc func(ctx context.Context, template string) (string, error)

type funcEngine struct {
	name string
	fn   RenderFunc
}

// Func wraps fn as an Engine registered under name.
func Func(name string, fn RenderFunc) Engine {
	return funcEngine{name: name, fn: fn}
}

func (e funcEngine) Name() string { return e.name }

func (e funcEngine) Render(ctx context.Context, template string) (string, error) {
	if e.fn == nil {
		return "", ErrNilRender
	}
	return e.fn(ctx, template)
}
