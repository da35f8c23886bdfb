// Package gotemplate adapts github.com/goliatone/go-template. The renderer is
// rooted at a scratch directory created for each invocation, since the
// library requires a base directory even when rendering inline content.
package gotemplate

import (
	"context"

	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-tplworker/internal/scratch"
	"github.com/goliatone/go-tplworker/pkg/engine"
)

// Option configures the go-template engine before construction.
type Option func(*Engine)

// WithScratchDir sets the parent directory for per-render base directories.
func WithScratchDir(dir string) Option {
	return func(e *Engine) {
		e.scratch = scratch.Dir(dir)
	}
}

// Engine renders templates through go-template.
type Engine struct {
	name    string
	scratch scratch.Dir
}

var _ engine.Engine = (*Engine)(nil)

// New constructs a go-template engine.
func New(name string, options ...Option) *Engine {
	e := &Engine{name: name}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Name implements engine.Engine.
func (e *Engine) Name() string { return e.name }

// Render implements engine.Engine.
func (e *Engine) Render(_ context.Context, tpl string) (string, error) {
	var rendered string
	err := e.scratch.WithDir(scratch.Name("gotemplate", tpl), func(dir string) error {
		renderer, err := gotemplatepkg.NewRenderer(gotemplatepkg.WithBaseDir(dir))
		if err != nil {
			return engine.Wrap("gotemplate: new renderer", err)
		}
		rendered, err = renderer.RenderString(tpl, nil)
		if err != nil {
			return engine.Wrap("gotemplate: render string", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return rendered, nil
}
