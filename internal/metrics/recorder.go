// Package metrics records relay outcomes.
package metrics

import "time"

// DispatchOutcome labels the result of a regenerate request.
type DispatchOutcome string

const (
	OutcomeSuccess       DispatchOutcome = "success"
	OutcomeUpstreamError DispatchOutcome = "upstream_error"
	OutcomeNetworkError  DispatchOutcome = "network_error"
)

// Recorder receives relay events. Implementations must be safe for concurrent use.
type Recorder interface {
	IncDispatch(outcome DispatchOutcome)
	ObserveDispatchDuration(d time.Duration)
	IncAuthFailure()
}

// NoopRecorder discards everything.
type NoopRecorder struct{}

func (NoopRecorder) IncDispatch(DispatchOutcome)           {}
func (NoopRecorder) ObserveDispatchDuration(time.Duration) {}
func (NoopRecorder) IncAuthFailure()                       {}
