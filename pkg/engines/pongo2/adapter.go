// Package pongo2 adapts github.com/flosch/pongo2 (Django/Jinja syntax). The
// string engine compiles templates in memory; the file engine writes each
// template into a scratch directory and loads it through a local filesystem
// loader, exercising the loader, include and extends resolution paths.
package pongo2

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	pongo2pkg "github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-tplworker/internal/scratch"
	"github.com/goliatone/go-tplworker/pkg/engine"
)

const defaultExtension = ".tpl"

// Option configures the pongo2 engines before construction.
type Option func(*config)

type config struct {
	scratch   scratch.Dir
	extension string
}

// WithScratchDir sets the parent directory for file-backed templates.
func WithScratchDir(dir string) Option {
	return func(cfg *config) {
		cfg.scratch = scratch.Dir(dir)
	}
}

// WithExtension overrides the extension of scratch template files. The file
// stem is always generated per render.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

func newConfig(options []Option) config {
	cfg := config{extension: defaultExtension}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Engine renders templates with pongo2.
type Engine struct {
	name     string
	fromFile bool
	cfg      config
}

var _ engine.Engine = (*Engine)(nil)

// New constructs an engine that compiles templates from strings.
func New(name string, options ...Option) *Engine {
	return &Engine{name: name, cfg: newConfig(options)}
}

// NewFile constructs an engine that loads templates from scratch files.
func NewFile(name string, options ...Option) *Engine {
	return &Engine{name: name, fromFile: true, cfg: newConfig(options)}
}

// Name implements engine.Engine.
func (e *Engine) Name() string { return e.name }

// Render implements engine.Engine.
func (e *Engine) Render(_ context.Context, tpl string) (string, error) {
	if e.fromFile {
		return e.renderFile(tpl)
	}

	tmpl, err := pongo2pkg.FromString(tpl)
	if err != nil {
		return "", engine.Wrap("pongo2: parse template string", err)
	}
	return execute(tmpl)
}

func (e *Engine) renderFile(tpl string) (string, error) {
	var rendered string
	err := e.cfg.scratch.WithFile(e.cfg.extension, tpl, func(dir, name string) error {
		loader, err := pongo2pkg.NewLocalFileSystemLoader(dir)
		if err != nil {
			return engine.Wrap("pongo2: create local loader", err)
		}
		set := pongo2pkg.NewSet(e.name, loader)

		tmpl, err := set.FromFile(name)
		if err != nil {
			return engine.Wrap(fmt.Sprintf("pongo2: load template %q", name), err)
		}
		rendered, err = execute(tmpl)
		return err
	})
	if err != nil {
		return "", err
	}
	return rendered, nil
}

func execute(tmpl *pongo2pkg.Template) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(pongo2pkg.Context{}, &buf); err != nil {
		return "", engine.Wrap("pongo2: execute template", err)
	}
	return buf.String(), nil
}
