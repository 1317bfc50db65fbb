package trainer

import (
	"fmt"
	"io"
	"time"
)

// Event describes one finished training round.
type Event struct {
	RunID        string
	Round        int
	Records      int
	LearningRate float64
	MAPE         float64
	Done         bool
	Time         time.Time
}

// Reporter receives progress from Trainer.Run. Report is called from the
// goroutine running Run.
type Reporter interface {
	Report(Event)
}

type ReporterFunc func(Event)

func (f ReporterFunc) Report(e Event) { f(e) }

type nopReporter struct{}

func (nopReporter) Report(Event) {}

// WriterReporter prints one line per round.
type WriterReporter struct {
	w     io.Writer
	every int
}

// NewWriterReporter prints every n-th round and the final one. n < 1
// prints every round.
func NewWriterReporter(w io.Writer, n int) *WriterReporter {
	if n < 1 {
		n = 1
	}
	return &WriterReporter{w: w, every: n}
}

func (r *WriterReporter) Report(e Event) {
	if !e.Done && e.Round%r.every != 0 {
		return
	}
	status := "training"
	if e.Done {
		status = "finished"
	}
	id := e.RunID
	if len(id) > 8 {
		id = id[:8]
	}
	fmt.Fprintln(r.w, fmt.Sprintf("%s [%s] round %d %s: MAPE %.2f%% (lr %.6f, %d records)",
		e.Time.Format("15:04:05"), id, e.Round, status, e.MAPE*100, e.LearningRate, e.Records))
}
