package domain

// Outcome is the binary result of one user action.
type Outcome uint8

const (
	// OutcomeFinished means the action completed.
	OutcomeFinished Outcome = iota
	// OutcomeCancelled means the action did not complete and was reported.
	OutcomeCancelled
)

// String returns "finished" or "cancelled".
func (o Outcome) String() string {
	if o == OutcomeCancelled {
		return "cancelled"
	}
	return "finished"
}

// Level is the severity of a report.
type Level uint8

const (
	// LevelInfo reports a completed action.
	LevelInfo Level = iota
	// LevelWarning reports an action skipped because of scene state.
	LevelWarning
	// LevelError reports an action the host refused.
	LevelError
)

// Report is the human-readable result of an action, produced at the operation boundary.
type Report struct {
	Outcome Outcome
	Level   Level
	Message string
	// Err is the underlying cause for cancelled actions, if any.
	Err error
}

// Finished returns an informational report for a completed action.
func Finished(msg string) Report {
	return Report{Outcome: OutcomeFinished, Level: LevelInfo, Message: msg}
}

// Warning returns a cancelled report caused by scene state rather than a host failure.
func Warning(msg string, err error) Report {
	return Report{Outcome: OutcomeCancelled, Level: LevelWarning, Message: msg, Err: err}
}

// Failure returns a cancelled report for a host-level failure.
func Failure(msg string, err error) Report {
	return Report{Outcome: OutcomeCancelled, Level: LevelError, Message: msg, Err: err}
}

// OK reports whether the action finished.
func (r Report) OK() bool {
	return r.Outcome == OutcomeFinished
}
