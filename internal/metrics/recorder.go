// Package metrics records build statistics.
package metrics

import "time"

// ResultLabel enumerates page outcomes for counters.
type ResultLabel string

const (
	ResultWritten ResultLabel = "written"
	ResultFailed  ResultLabel = "failed"
	ResultSkipped ResultLabel = "skipped"
)

// Recorder defines observability hooks for a site build.
type Recorder interface {
	ObservePageDuration(d time.Duration)
	IncPageResult(result ResultLabel)
	IncPageFailure(component string)
	ObserveBuildDuration(d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObservePageDuration(time.Duration)  {}
func (NoopRecorder) IncPageResult(ResultLabel)          {}
func (NoopRecorder) IncPageFailure(string)              {}
func (NoopRecorder) ObserveBuildDuration(time.Duration) {}
