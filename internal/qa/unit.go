// Package qa runs the per-table validation pipeline: a Unit owns one table's
// counters, summary row and step-framed log, and executes the ordered checks
// and statistics collectors of the table's Kind.
package qa

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/dbsmedya/tableqa/internal/config"
	"github.com/dbsmedya/tableqa/internal/extcmd"
	"github.com/dbsmedya/tableqa/internal/logger"
	"github.com/dbsmedya/tableqa/internal/report"
	"github.com/dbsmedya/tableqa/internal/trackdb"
)

// ErrInvalidState is returned when Validate or Statistics is called out of order.
var ErrInvalidState = errors.New("qa unit used out of order")

// State is the lifecycle position of a Unit.
type State int

const (
	StateCreated State = iota
	StateValidating
	StateValidated
	StateComputingStatistics
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateValidating:
		return "validating"
	case StateValidated:
		return "validated"
	case StateComputingStatistics:
		return "computing statistics"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ResolverFactory returns the attribute resolver for a database.
type ResolverFactory func(db string) trackdb.AttributeResolver

// Env holds the collaborators shared by every unit of a run. Everything in it
// is safe for concurrent use.
type Env struct {
	DB        *sql.DB
	Resolvers ResolverFactory
	Runner    extcmd.Runner
	Checks    config.ChecksConfig
	Genbank   *GenbankTables
	Logger    *logger.Logger
}

// Unit is the QA of one table. It is single use.
type Unit struct {
	table    Table
	kind     *Kind
	env      *Env
	resolver trackdb.AttributeResolver
	reporter *report.Reporter
	tally    report.Tally
	summary  *report.SummaryRow
	state    State
	log      *logger.Logger
}

// NewUnit creates a unit for table writing its step log to out.
func NewUnit(table Table, kind *Kind, env *Env, out io.Writer) *Unit {
	log := env.Logger
	if log == nil {
		log = logger.NewNop()
	}

	u := &Unit{
		table:   table,
		kind:    kind,
		env:     env,
		summary: report.NewSummaryRow(table.DB, table.Name),
		log:     log.WithTable(table.DB, table.Name),
	}
	if env.Resolvers != nil {
		u.resolver = env.Resolvers(table.DB)
	}
	u.reporter = report.NewReporter(out, &u.tally)
	return u
}

// Validate runs the kind's checks in order. Check failures are counted and
// never stop the sequence; only fatal errors (metadata lookup failures,
// unreachable database) abort it.
func (u *Unit) Validate(ctx context.Context) error {
	if u.state != StateCreated {
		return fmt.Errorf("%w: validate called while %s", ErrInvalidState, u.state)
	}
	u.state = StateValidating
	u.log.Debugw("Validating", "kind", u.kind.Name, "checks", len(u.kind.Checks))

	for _, check := range u.kind.Checks {
		if err := check.Run(ctx, u); err != nil {
			u.state = StateFailed
			u.log.Errorw("Validation aborted", "check", check.Name, "error", err)
			return fmt.Errorf("%s: %s: %w", u.table, check.Name, err)
		}
	}

	u.state = StateValidated
	u.log.Infow("Validation complete", "passes", u.tally.Passes, "errors", u.tally.Errors)
	return nil
}

// Statistics runs the kind's collectors. Counters are not touched.
func (u *Unit) Statistics(ctx context.Context) error {
	if u.state != StateValidated {
		return fmt.Errorf("%w: statistics called while %s", ErrInvalidState, u.state)
	}
	u.state = StateComputingStatistics

	for _, c := range u.kind.Collectors {
		if err := c.Run(ctx, u); err != nil {
			u.state = StateFailed
			u.log.Errorw("Statistics aborted", "collector", c.Name, "error", err)
			return fmt.Errorf("%s: %s: %w", u.table, c.Name, err)
		}
	}

	u.state = StateDone
	return nil
}

// Run calls Validate then Statistics.
func (u *Unit) Run(ctx context.Context) error {
	if err := u.Validate(ctx); err != nil {
		return err
	}
	return u.Statistics(ctx)
}

// Table returns the table under QA.
func (u *Unit) Table() Table { return u.table }

// Kind returns the unit's pipeline.
func (u *Unit) Kind() *Kind { return u.kind }

// State returns the lifecycle state.
func (u *Unit) State() State { return u.state }

// Tally returns pass and error totals.
func (u *Unit) Tally() report.Tally { return u.tally }

// Passes returns the number of passing outcomes.
func (u *Unit) Passes() int { return u.tally.Passes }

// Errors returns the number of failing outcomes.
func (u *Unit) Errors() int { return u.tally.Errors }

// Summary returns the unit's summary row.
func (u *Unit) Summary() *report.SummaryRow { return u.summary }

// LogErr returns the first error writing the step log, if any.
func (u *Unit) LogErr() error { return u.reporter.Err() }

// beginStep opens a step for this unit's table.
func (u *Unit) beginStep(name string) (*report.Step, error) {
	return u.reporter.BeginStep(u.table.DB, u.table.Name, name)
}
