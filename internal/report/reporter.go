// Package report implements step-scoped QA logging: a Reporter frames each
// check as a step in a per-table log, and steps tally passes and errors into
// the owning QA unit's counters.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrStepOpen is returned when a step is begun while another is still open.
var ErrStepOpen = errors.New("a step is already open")

// Tally counts recorded outcomes.
type Tally struct {
	Passes int
	Errors int
}

// Add folds another tally into t.
func (t *Tally) Add(other Tally) {
	t.Passes += other.Passes
	t.Errors += other.Errors
}

// Reporter writes step-framed output to one destination, typically the
// table's own log file. Outcomes recorded in its steps accumulate into the
// Tally passed to NewReporter. A Reporter is not safe for concurrent use;
// parallel units each get their own.
type Reporter struct {
	w     io.Writer
	tally *Tally
	open  *Step
	err   error
}

// NewReporter creates a Reporter writing to w and counting into tally.
func NewReporter(w io.Writer, tally *Tally) *Reporter {
	return &Reporter{w: w, tally: tally}
}

// BeginStep opens a step and writes its header. Steps do not nest.
func (r *Reporter) BeginStep(db, table, name string) (*Step, error) {
	if r.open != nil {
		return nil, fmt.Errorf("%w: cannot begin %q while %q is open", ErrStepOpen, name, r.open.name)
	}

	s := &Step{r: r, db: db, table: table, name: name}
	r.open = s
	r.printf("\n%s.%s: %s\n", db, table, name)
	return s, nil
}

// Err returns the first error encountered writing to the destination.
func (r *Reporter) Err() error {
	return r.err
}

// Tally returns the running totals.
func (r *Reporter) Tally() Tally {
	return *r.tally
}

func (r *Reporter) printf(format string, args ...interface{}) {
	if r.err != nil {
		return
	}
	if _, err := fmt.Fprintf(r.w, format, args...); err != nil {
		r.err = err
	}
}

// Step is the handle a check writes through while its step is open.
type Step struct {
	r      *Reporter
	db     string
	table  string
	name   string
	tally  Tally
	closed bool
}

// Name returns the step name.
func (s *Step) Name() string {
	return s.name
}

// WriteLine writes one free-form line into the step.
func (s *Step) WriteLine(line string) {
	s.r.printf("%s\n", line)
}

// Writef writes a formatted free-form line into the step.
func (s *Step) Writef(format string, args ...interface{}) {
	s.r.printf(format+"\n", args...)
}

// WriteCommand records the command line about to run.
func (s *Step) WriteCommand(cmdline string) {
	s.r.printf("command: %s\n", cmdline)
}

// Writer exposes the step's destination for streaming child process output.
func (s *Step) Writer() io.Writer {
	return stepWriter{s}
}

// Pass records a passing outcome.
func (s *Step) Pass() {
	s.Record(false)
}

// Fail records a failing outcome.
func (s *Step) Fail() {
	s.Record(true)
}

// Record records one outcome. Recording on an ended step is a programming
// error and panics.
func (s *Step) Record(failed bool) {
	if s.closed {
		panic(fmt.Sprintf("report: outcome recorded on ended step %q", s.name))
	}
	if failed {
		s.tally.Errors++
	} else {
		s.tally.Passes++
	}
}

// Tally returns the outcomes recorded in this step so far.
func (s *Step) Tally() Tally {
	return s.tally
}

// End closes the step, writes its footer and folds its outcomes into the
// unit's running totals. Ending twice is a no-op.
func (s *Step) End() Tally {
	if s.closed {
		return s.tally
	}
	s.closed = true
	if s.r.open == s {
		s.r.open = nil
	}
	s.r.tally.Add(s.tally)
	s.r.printf("%s\n", footer(s.tally))
	return s.tally
}

func footer(t Tally) string {
	var b strings.Builder
	b.WriteString("  => ")
	switch {
	case t.Errors > 0:
		fmt.Fprintf(&b, "ERROR (%d error(s), %d pass(es))", t.Errors, t.Passes)
	case t.Passes > 0:
		fmt.Fprintf(&b, "PASS (%d)", t.Passes)
	default:
		b.WriteString("no outcome recorded")
	}
	return b.String()
}

// stepWriter forwards raw bytes to the reporter destination.
type stepWriter struct {
	s *Step
}

func (w stepWriter) Write(p []byte) (int, error) {
	if w.s.r.err != nil {
		return 0, w.s.r.err
	}
	n, err := w.s.r.w.Write(p)
	if err != nil {
		w.s.r.err = err
	}
	return n, err
}
