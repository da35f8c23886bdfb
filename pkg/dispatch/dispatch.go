package dispatch

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"

	"github.com/goliatone/go-tplworker/pkg/engine"
)

// PreloadTemplate is the placeholder rendered by Preload.
const PreloadTemplate = "x"

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for debug records. Nil disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// Dispatcher invokes an active engine set concurrently.
type Dispatcher struct {
	set    engine.Set
	logger *slog.Logger
}

// New constructs a Dispatcher for set.
func New(set engine.Set, options ...Option) *Dispatcher {
	d := &Dispatcher{set: set}
	for _, opt := range options {
		if opt != nil {
			opt(d)
		}
	}
	if d.logger == nil {
		d.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return d
}

// Outcomes renders tpl with every engine and returns one outcome per engine,
// index aligned with the set. It never fails: an engine error or panic becomes
// a failure outcome and the remaining engines are unaffected. The call returns
// once every engine has settled.
func (d *Dispatcher) Outcomes(ctx context.Context, tpl string) []engine.Outcome {
	outcomes := make([]engine.Outcome, d.set.Len())

	var wg conc.WaitGroup
	for i := 0; i < d.set.Len(); i++ {
		e := d.set.At(i)
		wg.Go(func() {
			outcomes[i] = invoke(ctx, e, tpl)
		})
	}
	wg.Wait()

	return outcomes
}

// Dispatch renders tpl with every engine and returns the response record.
func (d *Dispatcher) Dispatch(ctx context.Context, tpl string) Response {
	outcomes := d.Outcomes(ctx, tpl)

	resp := make(Response, len(outcomes))
	for i, outcome := range outcomes {
		name := d.set.At(i).Name()
		if outcome.Failed() {
			d.logger.Debug("render failed", "engine", name, "error", outcome.Err)
		}
		resp[name] = outcome.String()
	}
	return resp
}

// Preload renders PreloadTemplate once with every engine, concurrently, and
// waits for all of them. Results, errors and panics are discarded.
func (d *Dispatcher) Preload(ctx context.Context) {
	outcomes := d.Outcomes(ctx, PreloadTemplate)
	for i, outcome := range outcomes {
		if outcome.Failed() {
			d.logger.Debug("preload failed", "engine", d.set.At(i).Name(), "error", outcome.Err)
		}
	}
}

func invoke(ctx context.Context, e engine.Engine, tpl string) engine.Outcome {
	var (
		out string
		err error
		pc  panics.Catcher
	)
	pc.Try(func() {
		out, err = e.Render(ctx, tpl)
	})
	if recovered := pc.Recovered(); recovered != nil {
		return engine.Failure(fmt.Errorf("panic: %v", recovered.Value))
	}
	if err != nil {
		return engine.Failure(err)
	}
	return engine.Success(out)
}
