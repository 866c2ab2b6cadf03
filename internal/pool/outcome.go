package pool

import (
	"time"

	ferrors "git.home.luguber.info/inful/assetbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/assetbuilder/internal/jobs"
	"git.home.luguber.info/inful/assetbuilder/internal/metrics"
)

// Outcome is the result of one batch. Results[i] belongs to Tasks[i].
type Outcome struct {
	Title    string
	Tasks    []jobs.Task
	Results  []jobs.Result
	Workers  int
	Duration time.Duration
	// Err is the error that stopped the batch, if any.
	Err error
}

// Counts returns how many tasks failed and how many finished with warnings only.
func (o Outcome) Counts() (failed, warned int) {
	for _, r := range o.Results {
		switch {
		case r.Failed():
			failed++
		case len(r.Warnings) > 0:
			warned++
		}
	}
	return failed, warned
}

// Succeeded returns the tasks that finished without errors, in submission order.
func (o Outcome) Succeeded() []jobs.Task {
	if o.Err != nil {
		return nil
	}
	var out []jobs.Task
	for i, r := range o.Results {
		if !r.Failed() {
			out = append(out, o.Tasks[i])
		}
	}
	return out
}

// Status summarizes the batch for metrics and the journal.
func (o Outcome) Status() metrics.OutcomeLabel {
	if o.Err != nil {
		if ferrors.IsFatal(o.Err) {
			return metrics.OutcomeFatal
		}
		return metrics.OutcomeCanceled
	}
	failed, warned := o.Counts()
	switch {
	case failed > 0:
		return metrics.OutcomeFailed
	case warned > 0:
		return metrics.OutcomeWarning
	default:
		return metrics.OutcomeSuccess
	}
}
