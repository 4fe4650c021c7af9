package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/firepack/firepack/core/record"
)

// ErrAlreadyCalled is returned when an execution is called a second time.
// Executions are single-use, consistent with write-once field semantics.
var ErrAlreadyCalled = errors.New("service: execution already called")

// Runner executes services. It carries the logger and metrics shared by all
// executions it creates; the zero-configured Runner logs nowhere and records
// nothing.
type Runner struct {
	logger  zerolog.Logger
	metrics *Metrics
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger attaches a logger; lifecycle phases log at debug level,
// failures at error level.
func WithLogger(logger zerolog.Logger) RunnerOption {
	return func(r *Runner) { r.logger = logger }
}

// WithMetrics attaches a metrics collector.
func WithMetrics(m *Metrics) RunnerOption {
	return func(r *Runner) { r.metrics = m }
}

// NewRunner creates a runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Exec prepares a single-use execution of svc.
func (r *Runner) Exec(svc Service) *Exec {
	return &Exec{
		runner: r,
		svc:    svc,
		rec:    record.New(svc.Schema()),
		state:  StateCreated,
	}
}

// Exec is one execution of one service: a state machine
// CREATED → VALIDATING → {SKIPPED | RUNNING} → DONE. It is single-threaded
// by design; Call runs every phase to completion before returning.
type Exec struct {
	runner *Runner
	svc    Service
	rec    *record.Record
	state  State
	extra  map[string]any
}

// State returns the execution's current state.
func (e *Exec) State() State { return e.state }

// Record returns the execution's input record. Fields are realized once
// Call has validated the input.
func (e *Exec) Record() *record.Record { return e.rec }

// CallOption configures one Call invocation.
type CallOption func(*Exec) []record.Option

// WithExtra passes call-time keyword extras through to Run, outside the
// validated input contract.
func WithExtra(extra map[string]any) CallOption {
	return func(e *Exec) []record.Option {
		e.extra = extra
		return nil
	}
}

// AllowUnknown relaxes input checking: keys that match no declared field are
// ignored instead of rejected.
func AllowUnknown() CallOption {
	return func(*Exec) []record.Option {
		return []record.Option{record.AllowUnknown()}
	}
}

// Call validates input against the service schema and drives the lifecycle.
// On validation failure the post-run hook still observes the failure before
// the aggregate error is returned and the run phase never executes. The
// post-run hook runs exactly once per Call, whatever the outcome.
func (e *Exec) Call(ctx context.Context, input map[string]any, opts ...CallOption) (any, error) {
	if e.state != StateCreated {
		return nil, ErrAlreadyCalled
	}

	var popts []record.Option
	for _, opt := range opts {
		popts = append(popts, opt(e)...)
	}

	name := e.svc.Schema().Name()
	logger := e.runner.logger.With().Str("service", name).Logger()
	start := time.Now()

	e.state = StateValidating
	logger.Debug().Msg("validating input")
	if err := e.rec.Populate(input, popts...); err != nil {
		e.finish(ctx, name, "validation_failed", start, Result{Fired: false, Err: err})
		logger.Error().Err(err).Msg("input validation failed")
		return nil, err
	}

	outcome, err := e.svc.PreRun(ctx, e.rec)
	if err != nil {
		e.finish(ctx, name, "pre_run_failed", start, Result{Fired: false, Err: err})
		logger.Error().Err(err).Msg("pre-run hook failed")
		return nil, err
	}
	if outcome.Skipped() {
		e.state = StateSkipped
		logger.Debug().Str("reason", outcome.Reason()).Msg("run phase skipped")
		e.finish(ctx, name, "skipped", start, Result{
			Fired:      false,
			Skipped:    true,
			SkipReason: outcome.Reason(),
		})
		return nil, nil
	}

	e.state = StateRunning
	logger.Debug().Msg("running")
	ret, err := e.svc.Run(ctx, e.rec, e.extra)
	if err != nil {
		e.finish(ctx, name, "run_failed", start, Result{Fired: true, Err: err})
		logger.Error().Err(err).Msg("run phase failed")
		return nil, err
	}

	e.finish(ctx, name, "completed", start, Result{Fired: true})
	logger.Debug().Msg("completed")
	return ret, nil
}

// finish invokes the terminal hook, moves to DONE, and records metrics.
func (e *Exec) finish(ctx context.Context, name, outcome string, start time.Time, res Result) {
	e.svc.PostRun(ctx, e.rec, res)
	e.state = StateDone
	if m := e.runner.metrics; m != nil {
		m.CallsTotal.WithLabelValues(name, outcome).Inc()
		m.CallDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}
}
