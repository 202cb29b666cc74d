package reconciler

import (
	"fmt"
	"time"
)

// Outcome is an action that was attempted.
type Outcome struct {
	Action Action
	// RemoteID is the id the remote holds after the call (new id for creates).
	RemoteID int64
	Err      error
}

// Result represents the outcome of applying a plan.
type Result struct {
	Operation Operation
	DryRun    bool

	Applied []Outcome
	Failed  *Outcome
	// NotAttempted counts pending writes left after a failure.
	NotAttempted int

	StartTime time.Time
	Duration  time.Duration
}

// IsSuccess returns true if every pending action was applied.
func (r *Result) IsSuccess() bool {
	return r.Failed == nil
}

// Summary counts applied actions per type.
func (r *Result) Summary() Summary {
	var s Summary
	for _, o := range r.Applied {
		s.add(o.Action.Type)
	}
	return s
}

// String returns a human-readable summary of the result.
func (r *Result) String() string {
	s := r.Summary().String()
	if r.DryRun {
		s = "Dry run: " + s
	}
	if r.Failed != nil {
		return fmt.Sprintf("%s; failed to %s %s (%d not attempted)",
			s, r.Failed.Action.Type, r.Failed.Action.Label(), r.NotAttempted)
	}
	return s
}

func newResult(op Operation, dryRun bool) *Result {
	return &Result{
		Operation: op,
		DryRun:    dryRun,
		StartTime: time.Now(),
	}
}

func (r *Result) finalize() {
	r.Duration = time.Since(r.StartTime)
}
