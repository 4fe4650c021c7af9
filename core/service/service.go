// Package service provides the execution lifecycle for business-logic units
// whose input contract is a record schema: validate the input mapping, run
// an optional pre-run hook that may skip execution, run the body, and always
// invoke the post-run hook exactly once with the outcome.
package service

import (
	"context"

	"github.com/firepack/firepack/core/record"
)

// Service is one executable unit. Its Schema declares the input contract;
// the populated record is handed to every hook.
//
// Embed Hooks to get no-op PreRun and PostRun implementations.
type Service interface {
	// Schema returns the input contract. The same schema value must be
	// returned on every call.
	Schema() *record.Schema

	// PreRun decides whether the body runs. Returning Skip bypasses Run
	// entirely; PostRun still observes the skip. A non-nil error aborts the
	// call and propagates after PostRun observes it.
	PreRun(ctx context.Context, rec *record.Record) (Outcome, error)

	// Run is the body. extra carries call-time keyword extras that are not
	// part of the input contract. The return value is handed back to the
	// Call caller; an error propagates unwrapped after PostRun observes it.
	Run(ctx context.Context, rec *record.Record, extra map[string]any) (any, error)

	// PostRun always executes exactly once per Call that reached the
	// validation outcome, whether the body ran, was skipped, or validation
	// failed.
	PostRun(ctx context.Context, rec *record.Record, res Result)
}

// Outcome is the pre-run hook's decision: proceed to the run phase or skip
// it with a reason.
type Outcome struct {
	skip   bool
	reason string
}

// Proceed continues to the run phase.
func Proceed() Outcome { return Outcome{} }

// Skip bypasses the run phase with the given reason. Skipping is a control
// signal, not a failure.
func Skip(reason string) Outcome { return Outcome{skip: true, reason: reason} }

// Skipped reports whether the outcome bypasses the run phase.
func (o Outcome) Skipped() bool { return o.skip }

// Reason returns the skip reason, empty for Proceed.
func (o Outcome) Reason() string { return o.reason }

// Result is what the post-run hook observes.
type Result struct {
	// Fired is true when the run phase executed (even if it returned an
	// error), false when validation failed, the pre-run hook errored, or
	// the execution was skipped.
	Fired bool

	// Skipped is true when the pre-run hook elected to skip.
	Skipped bool

	// SkipReason is the reason attached to a skip.
	SkipReason string

	// Err is the validation aggregate, the pre-run error, or the run error;
	// nil on clean completion or skip.
	Err error
}

// State tracks an execution through its life. Terminal executions are not
// reusable.
type State int

const (
	StateCreated State = iota
	StateValidating
	StateSkipped
	StateRunning
	StateDone
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateValidating:
		return "validating"
	case StateSkipped:
		return "skipped"
	case StateRunning:
		return "running"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Hooks provides no-op PreRun and PostRun so services only implement what
// they need.
type Hooks struct{}

func (Hooks) PreRun(context.Context, *record.Record) (Outcome, error) {
	return Proceed(), nil
}

func (Hooks) PostRun(context.Context, *record.Record, Result) {}
