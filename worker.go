// Package tplworker wires the engine registry, selector, warmup and line
// protocol into a worker that renders each stdin template through every
// active engine.
package tplworker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/goliatone/go-tplworker/pkg/catalog"
	"github.com/goliatone/go-tplworker/pkg/dispatch"
	"github.com/goliatone/go-tplworker/pkg/engine"
	"github.com/goliatone/go-tplworker/pkg/protocol"
)

// Diagnostic lines written to the diagnostics stream. A supervisor waits for
// the line starting with ReadyPrefix before sending templates.
const (
	LoadingLine = "🔄 Loading Go template engines..."
	ReadyPrefix = "✅"
)

// Option customises a Worker.
type Option func(*Worker)

// WithRegistry supplies a prebuilt registry instead of building one from the
// catalog.
func WithRegistry(reg *engine.Registry) Option {
	return func(w *Worker) {
		w.registry = reg
	}
}

// WithCatalog overrides the embedded engine catalog.
func WithCatalog(c catalog.Catalog) Option {
	return func(w *Worker) {
		w.catalog = &c
	}
}

// WithKinds supplies the kind registry used to build catalog engines.
func WithKinds(k *catalog.Kinds) Option {
	return func(w *Worker) {
		w.kinds = k
	}
}

// WithScratchDir sets the parent directory for file-backed engines.
func WithScratchDir(dir string) Option {
	return func(w *Worker) {
		w.env.ScratchDir = dir
	}
}

// WithEngines restricts the worker to a comma separated list of engine names.
func WithEngines(filter string) Option {
	return func(w *Worker) {
		w.filter = filter
	}
}

// WithPreload toggles the warmup pass (enabled by default).
func WithPreload(enabled bool) Option {
	return func(w *Worker) {
		w.preload = enabled
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		w.logger = logger
	}
}

// WithDiagnostics sets where the loading and readiness lines are written.
// Defaults to os.Stderr.
func WithDiagnostics(out io.Writer) Option {
	return func(w *Worker) {
		w.diagnostics = out
	}
}

// Worker serves the line protocol over an active engine set.
type Worker struct {
	registry    *engine.Registry
	catalog     *catalog.Catalog
	kinds       *catalog.Kinds
	env         catalog.Env
	filter      string
	preload     bool
	logger      *slog.Logger
	diagnostics io.Writer

	selection  engine.Selection
	dispatcher *dispatch.Dispatcher
}

// New builds the registry (unless supplied), applies the engine filter and
// prepares the dispatcher. It does not warm engines; see Start.
func New(options ...Option) (*Worker, error) {
	w := &Worker{preload: true}
	for _, opt := range options {
		if opt != nil {
			opt(w)
		}
	}
	if w.logger == nil {
		w.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if w.diagnostics == nil {
		w.diagnostics = os.Stderr
	}

	if w.registry == nil {
		reg, err := NewRegistry(w.catalogOrDefault(), w.kinds, w.env)
		if err != nil {
			return nil, err
		}
		w.registry = reg
	}

	w.selection = w.registry.Select(w.filter)
	for _, name := range w.selection.Unknown {
		w.logger.Debug("ignoring unknown engine", "engine", name)
	}
	w.dispatcher = dispatch.New(w.selection.Active, dispatch.WithLogger(w.logger))
	return w, nil
}

// NewRegistry builds the full engine registry from a catalog.
func NewRegistry(c catalog.Catalog, kinds *catalog.Kinds, env catalog.Env) (*engine.Registry, error) {
	return catalog.Build(c, kinds, env)
}

func (w *Worker) catalogOrDefault() catalog.Catalog {
	if w.catalog != nil {
		return *w.catalog
	}
	return catalog.Default()
}

// Active returns the engines serving requests.
func (w *Worker) Active() engine.Set {
	return w.selection.Active
}

// Dispatcher returns the worker's dispatcher.
func (w *Worker) Dispatcher() *dispatch.Dispatcher {
	return w.dispatcher
}

// Start writes the loading line, runs the warmup pass when enabled and then
// reports the active set.
func (w *Worker) Start(ctx context.Context) error {
	if _, err := fmt.Fprintln(w.diagnostics, LoadingLine); err != nil {
		return fmt.Errorf("tplworker: write diagnostics: %w", err)
	}
	if w.preload {
		w.dispatcher.Preload(ctx)
	}
	active := w.selection.Active
	w.logger.Info("engines ready", "count", active.Len(), "preload", w.preload)
	if _, err := fmt.Fprintf(w.diagnostics, "%s %d engine(s) ready: %s\n", ReadyPrefix, active.Len(), active); err != nil {
		return fmt.Errorf("tplworker: write diagnostics: %w", err)
	}
	return nil
}

// Serve answers templates from in on out until in is exhausted.
func (w *Worker) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	return protocol.NewServer(w.dispatcher, in, out, protocol.WithLogger(w.logger)).Serve(ctx)
}

// Run calls Start and then Serve.
func (w *Worker) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	if err := w.Start(ctx); err != nil {
		return err
	}
	return w.Serve(ctx, in, out)
}
