// Package fasttemplate adapts github.com/valyala/fasttemplate, a substitution
// only engine: tags are replaced from an empty map and therefore vanish.
package fasttemplate

import (
	"context"

	fasttemplatepkg "github.com/valyala/fasttemplate"

	"github.com/goliatone/go-tplworker/pkg/engine"
)

const (
	defaultStartTag = "{{"
	defaultEndTag   = "}}"
)

// Option configures the fasttemplate engine before construction.
type Option func(*Engine)

// WithTags overrides the start and end tags. Empty values keep the defaults.
func WithTags(start, end string) Option {
	return func(e *Engine) {
		if start != "" {
			e.startTag = start
		}
		if end != "" {
			e.endTag = end
		}
	}
}

// Engine renders templates with fasttemplate.
type Engine struct {
	name     string
	startTag string
	endTag   string
}

var _ engine.Engine = (*Engine)(nil)

// New constructs a fasttemplate engine.
func New(name string, options ...Option) *Engine {
	e := &Engine{name: name, startTag: defaultStartTag, endTag: defaultEndTag}
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
	t, err := fasttemplatepkg.NewTemplate(tpl, e.startTag, e.endTag)
	if err != nil {
		return "", engine.Wrap("fasttemplate", err)
	}
	return t.ExecuteString(map[string]any{}), nil
}
