package pipeline

import (
	"fmt"
	"io"

	"github.com/lexhound/lexhound/internal/model"
)

// Progress receives stage notifications during processing. Implementations
// must be safe for use from a single pipeline goroutine; batch mode gives
// each document its own pipeline run.
type Progress interface {
	Started(documentID string)
	Stage(name, detail string)
	Finished(summary model.Summary)
}

type nopProgress struct{}

func (nopProgress) Started(string)         {}
func (nopProgress) Stage(string, string)   {}
func (nopProgress) Finished(model.Summary) {}

// logProgress writes stage lines to a writer, normally stderr, keeping
// stdout clean for report output.
type logProgress struct {
	w io.Writer
}

// NewLogProgress returns a Progress that logs each stage to w.
func NewLogProgress(w io.Writer) Progress {
	return &logProgress{w: w}
}

func (l *logProgress) Started(documentID string) {
	fmt.Fprintf(l.w, "processing %s\n", documentID)
}

func (l *logProgress) Stage(name, detail string) {
	fmt.Fprintf(l.w, "  %s: %s\n", name, detail)
}

func (l *logProgress) Finished(s model.Summary) {
	fmt.Fprintf(l.w, "done: %d citations, %d clusters, %d verified, %d unverified\n",
		s.CitationsFound, s.ClustersFormed, s.Verified, s.Unverified)
}
