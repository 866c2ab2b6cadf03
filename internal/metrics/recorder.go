package metrics

import "time"

// ResultLabel enumerates job result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultWarning ResultLabel = "warning"
	ResultError   ResultLabel = "error"
	ResultFatal   ResultLabel = "fatal"
)

// OutcomeLabel is the final status of a batch or a whole run.
type OutcomeLabel string

const (
	OutcomeSuccess  OutcomeLabel = "success"
	OutcomeWarning  OutcomeLabel = "warning"
	OutcomeFailed   OutcomeLabel = "failed"
	OutcomeFatal    OutcomeLabel = "fatal"
	OutcomeCanceled OutcomeLabel = "canceled"
)

// Recorder defines observability hooks for job, batch and watch metrics.
// All methods must be safe to call from concurrent workers.
type Recorder interface {
	ObserveJobDuration(kind string, d time.Duration)
	IncJobResult(kind string, result ResultLabel)
	ObserveBatchDuration(batch string, d time.Duration)
	IncBatchOutcome(batch string, outcome OutcomeLabel)
	SetWorkers(n int)
	IncWatchEvent(kind string)
	IncRuleMatch(rule string)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveJobDuration(string, time.Duration)   {}
func (NoopRecorder) IncJobResult(string, ResultLabel)           {}
func (NoopRecorder) ObserveBatchDuration(string, time.Duration) {}
func (NoopRecorder) IncBatchOutcome(string, OutcomeLabel)       {}
func (NoopRecorder) SetWorkers(int)                             {}
func (NoopRecorder) IncWatchEvent(string)                       {}
func (NoopRecorder) IncRuleMatch(string)                        {}

// OrNoop returns r, or a NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
