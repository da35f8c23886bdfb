// Package gostd adapts the standard library template packages. The sanitised
// variant pipes html/template output through a bluemonday policy so escaping
// and sanitisation discrepancies can be compared side by side.
package gostd

import (
	"bytes"
	"context"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-tplworker/pkg/engine"
)

// Option configures an engine before construction.
type Option func(*config)

type config struct {
	leftDelim  string
	rightDelim string
}

// WithDelims overrides the action delimiters. Empty values keep the defaults.
func WithDelims(left, right string) Option {
	return func(cfg *config) {
		cfg.leftDelim = left
		cfg.rightDelim = right
	}
}

func newConfig(options []Option) config {
	var cfg config
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Text renders with text/template.
type Text struct {
	name string
	cfg  config
}

var _ engine.Engine = (*Text)(nil)

// NewText constructs a text/template engine.
func NewText(name string, options ...Option) *Text {
	return &Text{name: name, cfg: newConfig(options)}
}

// Name implements engine.Engine.
func (e *Text) Name() string { return e.name }

// Render implements engine.Engine.
func (e *Text) Render(_ context.Context, tpl string) (string, error) {
	t, err := texttemplate.New(e.name).Delims(e.cfg.leftDelim, e.cfg.rightDelim).Parse(tpl)
	if err != nil {
		return "", engine.Wrap("text/template: parse", err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, map[string]any{}); err != nil {
		return "", engine.Wrap("text/template: execute", err)
	}
	return buf.String(), nil
}

// HTML renders with html/template, optionally sanitising the result.
type HTML struct {
	name   string
	cfg    config
	policy *bluemonday.Policy
}

var _ engine.Engine = (*HTML)(nil)

// NewHTML constructs an html/template engine.
func NewHTML(name string, options ...Option) *HTML {
	return &HTML{name: name, cfg: newConfig(options)}
}

// NewSanitizedHTML constructs an html/template engine whose output is passed
// through policy. A nil policy uses bluemonday.UGCPolicy.
func NewSanitizedHTML(name string, policy *bluemonday.Policy, options ...Option) *HTML {
	if policy == nil {
		policy = bluemonday.UGCPolicy()
	}
	return &HTML{name: name, cfg: newConfig(options), policy: policy}
}

// Name implements engine.Engine.
func (e *HTML) Name() string { return e.name }

// Render implements engine.Engine.
func (e *HTML) Render(_ context.Context, tpl string) (string, error) {
	t, err := htmltemplate.New(e.name).Delims(e.cfg.leftDelim, e.cfg.rightDelim).Parse(tpl)
	if err != nil {
		return "", engine.Wrap("html/template: parse", err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, map[string]any{}); err != nil {
		return "", engine.Wrap("html/template: execute", err)
	}
	if e.policy == nil {
		return buf.String(), nil
	}
	return e.policy.Sanitize(buf.String()), nil
}
