package audit

import (
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"
)

// Status is the lifecycle state of a RuleRun.
type Status int

// Status values. A run moves NotRun -> Running -> one terminal state.
const (
	NotRun Status = iota
	Running
	Passed
	Failed
	Errored
)

func (s Status) String() string {
	switch s {
	case NotRun:
		return "not_run"
	case Running:
		return "running"
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	case Errored:
		return "errored"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal reports whether the run has finished.
func (s Status) Terminal() bool {
	return s == Passed || s == Failed || s == Errored
}

// RuleRun is a single execution of a Rule.
type RuleRun struct {
	Rule     *Rule
	Status   Status
	Problems []Problem
	// Err is a *RuntimeError when Status is Errored.
	Err      error
	Duration time.Duration

	started atomic.Bool
}

// NewRun creates a run in the NotRun state.
func NewRun(r *Rule) *RuleRun {
	return &RuleRun{Rule: r}
}

// Execute runs the rule over its table. Failures inside the rule are
// captured on the run; the returned error is only ever ErrIllegalReuse.
func (rr *RuleRun) Execute() error {
	if !rr.started.CompareAndSwap(false, true) {
		return fmt.Errorf("%w: rule %q is %s", ErrIllegalReuse, rr.Rule.Name, rr.Status)
	}

	rr.Status = Running
	ctx := newContext(rr.Rule)
	start := time.Now()
	err := rr.invoke(ctx)
	rr.Duration = time.Since(start)
	rr.Problems = ctx.result.Problems()

	switch {
	case err != nil:
		rr.Err = err
		rr.Status = Errored
	case len(rr.Problems) > 0:
		rr.Status = Failed
	default:
		rr.Status = Passed
	}
	return nil
}

func (rr *RuleRun) invoke(ctx *Context) (err error) {
	defer func() {
		if v := recover(); v != nil {
			cause, ok := v.(error)
			if !ok {
				cause = &PanicError{Value: v}
			}
			err = &RuntimeError{Rule: rr.Rule.Name, Err: cause, Stack: debug.Stack()}
		}
	}()

	if e := rr.Rule.proc(ctx); e != nil {
		return &RuntimeError{Rule: rr.Rule.Name, Err: e}
	}
	return nil
}
