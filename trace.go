package virtmem

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// TraceWriter writes one line per reference and a closing summary.
type TraceWriter struct {
	w *bufio.Writer
	f *os.File
}

func NewTraceWriter(w io.Writer) *TraceWriter {
	return &TraceWriter{w: bufio.NewWriter(w)}
}

// NewTraceFile truncates filename and traces into it.
func NewTraceFile(filename string) (*TraceWriter, error) {
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0666)
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}
	return &TraceWriter{
		w: bufio.NewWriter(file),
		f: file,
	}, nil
}

func (tw *TraceWriter) Record(ev Event) error {
	var err error
	switch {
	case ev.Hit:
		_, err = fmt.Fprintf(tw.w, "%d hit page=%d frame=%d\n", ev.Seq, ev.Page, ev.Frame)
	case ev.Evicted != NoPage:
		_, err = fmt.Fprintf(tw.w, "%d fault page=%d frame=%d evicted=%d\n", ev.Seq, ev.Page, ev.Frame, ev.Evicted)
	default:
		_, err = fmt.Fprintf(tw.w, "%d fault page=%d frame=%d\n", ev.Seq, ev.Page, ev.Frame)
	}
	return err
}

// Summary writes the final residency and counters.
func (tw *TraceWriter) Summary(t *Table, r Report) error {
	for _, m := range t.Mappings() {
		if _, err := fmt.Fprintf(tw.w, "resident page=%d frame=%d\n", m.First, m.Second); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(tw.w, "refs=%d hits=%d faults=%d evictions=%d empty=%d\n",
		r.References, r.Hits, r.Faults, r.Evictions, r.EmptyFrames)
	return err
}

func (tw *TraceWriter) Flush() error { return tw.w.Flush() }

// Close flushes and closes the underlying file if the writer owns one.
func (tw *TraceWriter) Close() error {
	err := tw.w.Flush()
	if tw.f != nil {
		if cerr := tw.f.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
