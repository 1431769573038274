package qa

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"github.com/dbsmedya/tableqa/internal/config"
	"github.com/dbsmedya/tableqa/internal/lock"
	"github.com/dbsmedya/tableqa/internal/logger"
	"github.com/dbsmedya/tableqa/internal/report"
)

// Result is the outcome of one table's QA.
type Result struct {
	Table   Table
	Kind    string
	Tally   report.Tally
	Summary *report.SummaryRow
	LogPath string
	// Err is set when the table could not be validated at all.
	Err error
}

// Line converts the result for the summary table.
func (r Result) Line() report.Line {
	kind := r.Kind
	if kind == "" {
		kind = "-"
	}
	return report.Line{
		DB:      r.Table.DB,
		Table:   r.Table.Name,
		Kind:    kind,
		Tally:   r.Tally,
		Summary: r.Summary,
		Err:     r.Err,
	}
}

// Driver runs one Unit per table, up to Workers at a time. Each unit writes
// its own log file so parallel units never share an output stream.
type Driver struct {
	env   *Env
	run   config.RunConfig
	log   *logger.Logger
	runID string

	// ForceKind skips kind detection when set.
	ForceKind string
}

// NewDriver creates a driver with a fresh run ID.
func NewDriver(env *Env, run config.RunConfig, log *logger.Logger) *Driver {
	if log == nil {
		log = logger.NewNop()
	}
	runID := uuid.NewString()
	return &Driver{
		env:   env,
		run:   run,
		log:   log.WithRun(runID),
		runID: runID,
	}
}

// RunID identifies this run in logs and the summary.
func (d *Driver) RunID() string {
	return d.runID
}

// Run checks every table and returns results sorted by database and table.
// Per-table failures are reported in Result.Err; the returned error is only
// for problems that prevent the run from starting.
func (d *Driver) Run(ctx context.Context, tables []Table) ([]Result, error) {
	if err := os.MkdirAll(d.run.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	workers := d.run.Workers
	if workers <= 0 {
		workers = 1
	}
	if d.run.LockTables && d.env.DB != nil {
		// Each locked table holds one connection and queries on another.
		if limit := d.env.DB.Stats().MaxOpenConnections; limit > 0 && limit < 2*workers {
			return nil, fmt.Errorf("connection pool of %d is too small for %d workers with table locks (need %d)",
				limit, workers, 2*workers)
		}
	}
	d.log.Infow("Starting QA run", "tables", len(tables), "workers", workers, "output_dir", d.run.OutputDir)

	p := pool.NewWithResults[Result]().WithMaxGoroutines(workers)
	for _, t := range tables {
		t := t
		p.Go(func() Result {
			return d.checkTable(ctx, t)
		})
	}
	results := p.Wait()

	sort.Slice(results, func(i, j int) bool {
		if results[i].Table.DB != results[j].Table.DB {
			return results[i].Table.DB < results[j].Table.DB
		}
		return results[i].Table.Name < results[j].Table.Name
	})
	return results, nil
}

// LogPath returns where a table's step log is written.
func (d *Driver) LogPath(t Table) string {
	return filepath.Join(d.run.OutputDir, t.DB+"."+t.Name+".log")
}

func (d *Driver) checkTable(ctx context.Context, t Table) Result {
	log := d.log.WithTable(t.DB, t.Name)
	result := Result{Table: t, LogPath: d.LogPath(t)}

	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	f, err := os.Create(result.LogPath)
	if err != nil {
		result.Err = fmt.Errorf("failed to create log file: %w", err)
		return result
	}
	defer f.Close()

	run := func() error {
		kind, err := d.kindFor(ctx, t)
		if err != nil {
			return err
		}
		result.Kind = kind.Name

		unit := NewUnit(t, kind, d.env, f)
		err = unit.Run(ctx)
		result.Tally = unit.Tally()
		result.Summary = unit.Summary()
		if logErr := unit.LogErr(); logErr != nil {
			log.Warnw("Step log incomplete", "path", result.LogPath, "error", logErr)
		}
		return err
	}

	if d.run.LockTables && d.env.DB != nil {
		err = lock.WithTableLock(ctx, d.env.DB, t.DB, t.Name, run)
	} else {
		err = run()
	}

	if err != nil {
		result.Err = err
		log.Errorw("Table not validated", "error", err)
	} else {
		log.Infow("Table checked", "kind", result.Kind, "passes", result.Tally.Passes, "errors", result.Tally.Errors)
	}
	return result
}

func (d *Driver) kindFor(ctx context.Context, t Table) (*Kind, error) {
	if d.ForceKind != "" {
		return KindByName(d.ForceKind)
	}
	if d.env.DB == nil {
		return nil, fmt.Errorf("no database connection for kind detection")
	}
	return DetectKind(ctx, d.env.DB, t)
}
