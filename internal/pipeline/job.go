package pipeline

import (
	"context"

	"github.com/lexhound/lexhound/internal/model"
)

// Job is a handle to an asynchronous pipeline run. The pipeline logic is
// identical to the synchronous path; only the scheduling differs.
type Job struct {
	cancel context.CancelFunc
	done   chan struct{}
	report *model.Report
	err    error
}

// ProcessAsync starts processing in the background and returns immediately.
// Progress arrives through the pipeline's progress port as usual.
func (p *Pipeline) ProcessAsync(ctx context.Context, doc Document) *Job {
	ctx, cancel := context.WithCancel(ctx)
	j := &Job{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(j.done)
		defer cancel()
		j.report, j.err = p.Process(ctx, doc)
	}()
	return j
}

// Cancel stops scheduling further verification work. Citations still pending
// when the cancellation lands are reported unverified; the run still
// completes and Result still returns a report.
func (j *Job) Cancel() {
	j.cancel()
}

// Done is closed when the run has finished.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Result blocks until the run finishes and returns its outcome.
func (j *Job) Result() (*model.Report, error) {
	<-j.done
	return j.report, j.err
}
