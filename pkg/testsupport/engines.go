// Package testsupport provides fake engines and golden-file helpers shared by
// the worker's tests.
package testsupport

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/goliatone/go-tplworker/pkg/engine"
)

// Static returns an engine that always renders out.
func Static(name, out string) engine.Engine {
	return engine.Func(name, func(context.Context, string) (string, error) {
		return out, nil
	})
}

// Echo returns an engine that renders the template unchanged.
func Echo(name string) engine.Engine {
	return engine.Func(name, func(_ context.Context, tpl string) (string, error) {
		return tpl, nil
	})
}

// Failing returns an engine that always fails with message.
func Failing(name, message string) engine.Engine {
	return engine.Func(name, func(context.Context, string) (string, error) {
		return "", errors.New(message)
	})
}

// Panicking returns an engine that panics with value on every render.
func Panicking(name string, value any) engine.Engine {
	return engine.Func(name, func(context.Context, string) (string, error) {
		panic(value)
	})
}

// Delayed wraps inner so every render sleeps for delay first.
func Delayed(inner engine.Engine, delay time.Duration) engine.Engine {
	return engine.Func(inner.Name(), func(ctx context.Context, tpl string) (string, error) {
		time.Sleep(delay)
		return inner.Render(ctx, tpl)
	})
}

// Counter records how many times an engine rendered and the last template.
type Counter struct {
	inner engine.Engine
	calls atomic.Int64
	last  atomic.Value
}

// Counting wraps inner with a call counter.
func Counting(inner engine.Engine) *Counter {
	return &Counter{inner: inner}
}

// Name implements engine.Engine.
func (c *Counter) Name() string { return c.inner.Name() }

// Render implements engine.Engine.
func (c *Counter) Render(ctx context.Context, tpl string) (string, error) {
	c.calls.Add(1)
	c.last.Store(tpl)
	return c.inner.Render(ctx, tpl)
}

// Calls returns the number of renders so far.
func (c *Counter) Calls() int64 { return c.calls.Load() }

// Last returns the most recent template, or "" when never called.
func (c *Counter) Last() string {
	if v, ok := c.last.Load().(string); ok {
		return v
	}
	return ""
}

// Gate is an engine that blocks each render until Release is called. Started
// receives one value per render before it blocks.
type Gate struct {
	name    string
	out     string
	Started chan struct{}
	release chan struct{}
}

// NewGate constructs a Gate rendering out.
func NewGate(name, out string) *Gate {
	return &Gate{
		name:    name,
		out:     out,
		Started: make(chan struct{}, 16),
		release: make(chan struct{}),
	}
}

// Name implements engine.Engine.
func (g *Gate) Name() string { return g.name }

// Render implements engine.Engine.
func (g *Gate) Render(context.Context, string) (string, error) {
	g.Started <- struct{}{}
	<-g.release
	return g.out, nil
}

// Release unblocks every pending and future render.
func (g *Gate) Release() { close(g.release) }
