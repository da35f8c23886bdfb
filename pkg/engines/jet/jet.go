// Package jet adapts github.com/CloudyKit/jet. Templates are parsed in memory
// without being cached by the set, so every line is compiled fresh.
package jet

import (
	"bytes"
	"context"

	jetpkg "github.com/CloudyKit/jet/v6"

	"github.com/goliatone/go-tplworker/pkg/engine"
)

// Option configures the jet engine before construction.
type Option func(*config)

type config struct {
	leftDelim  string
	rightDelim string
}

// WithDelims overrides the {{ }} action delimiters.
func WithDelims(left, right string) Option {
	return func(cfg *config) {
		cfg.leftDelim = left
		cfg.rightDelim = right
	}
}

// Engine renders templates with jet.
type Engine struct {
	name string
	set  *jetpkg.Set
}

var _ engine.Engine = (*Engine)(nil)

// New constructs a jet engine backed by an in-memory loader.
func New(name string, options ...Option) *Engine {
	var cfg config
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	setOptions := []jetpkg.Option{jetpkg.InDevelopmentMode()}
	if cfg.leftDelim != "" && cfg.rightDelim != "" {
		setOptions = append(setOptions, jetpkg.WithDelims(cfg.leftDelim, cfg.rightDelim))
	}

	return &Engine{
		name: name,
		set:  jetpkg.NewSet(jetpkg.NewInMemLoader(), setOptions...),
	}
}

// Name implements engine.Engine.
func (e *Engine) Name() string { return e.name }

// Render implements engine.Engine.
func (e *Engine) Render(_ context.Context, tpl string) (string, error) {
	tmpl, err := e.set.Parse("/"+e.name+".jet", tpl)
	if err != nil {
		return "", engine.Wrap("jet: parse", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, nil, nil); err != nil {
		return "", engine.Wrap("jet: execute", err)
	}
	return buf.String(), nil
}
