package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/tableqa/internal/extcmd"
	"github.com/dbsmedya/tableqa/internal/logger"
	"github.com/dbsmedya/tableqa/internal/qa"
	"github.com/dbsmedya/tableqa/internal/report"
)

var (
	checkTablesFile string
	checkDB         string
	checkKind       string
	checkNoLock     bool
)

var checkCmd = &cobra.Command{
	Use:   "check [db.table ...]",
	Short: "Run QA checks on tables",
	Long: `Check runs the QA pipeline on each table and prints a summary.

The table kind is detected from its columns unless --kind is given. A table
fails when any step recorded an error, and is aborted when a fatal problem
(missing table, unresolvable track metadata) stopped its checks. The command
exits non-zero if any table failed or was aborted.

Example:
  tableqa check --config tableqa.yaml hg38.knownGene hg38.refGene
  tableqa check --db hg38 --tables-file release.tables --workers 4`,
	RunE:         runCheck,
	SilenceUsage: true,
}

func init() {
	checkCmd.Flags().StringVarP(&checkTablesFile, "tables-file", "f", "",
		"File listing tables to check, one per line")
	checkCmd.Flags().StringVar(&checkDB, "db", "",
		"Database for unqualified table names (defaults to database.database)")
	checkCmd.Flags().StringVar(&checkKind, "kind", "auto",
		"Table kind: auto, generic or positional")
	checkCmd.Flags().BoolVar(&checkNoLock, "no-lock", false,
		"Do not take per-table advisory locks")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	forceKind, err := parseKindFlag(checkKind)
	if err != nil {
		return err
	}

	defaultDB := checkDB
	if defaultDB == "" {
		defaultDB = cfg.Database.Database
	}
	tables, err := collectTables(args, checkTablesFile, defaultDB)
	if err != nil {
		return err
	}
	if len(tables) == 0 {
		return errors.New("no tables to check")
	}
	if checkNoLock {
		cfg.Run.LockTables = false
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	ctx, cancel := signalContext(func(sig os.Signal) {
		log.Warnw("Received shutdown signal - finishing current steps...", "signal", sig.String())
	})
	defer cancel()

	dbManager, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer dbManager.Close()

	genbank, err := qa.LoadGenbankTables(cfg.Checks.GenbankTablesFile)
	if err != nil {
		return err
	}
	if genbank == nil {
		log.Warnw("GenBank table list not found; no tables exempt from positionalTblCheck",
			"path", cfg.Checks.GenbankTablesFile)
	}

	runner := &extcmd.ExecRunner{}
	env := &qa.Env{
		DB:        dbManager.DB,
		Resolvers: newResolverFactory(cfg.Metadata, dbManager.DB, runner),
		Runner:    runner,
		Checks:    cfg.Checks,
		Genbank:   genbank,
		Logger:    log,
	}

	driver := qa.NewDriver(env, cfg.Run, log)
	driver.ForceKind = forceKind

	results, err := driver.Run(ctx, tables)
	if err != nil {
		return err
	}

	lines := make([]report.Line, 0, len(results))
	for _, r := range results {
		lines = append(lines, r.Line())
	}
	if err := report.WriteSummary(cmd.OutOrStdout(), driver.RunID(), lines, color.SupportColor()); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	return summaryError(lines)
}

// parseKindFlag maps --kind to a forced kind name; "auto" means detect.
func parseKindFlag(kind string) (string, error) {
	switch kind {
	case "", "auto":
		return "", nil
	case qa.KindGeneric, qa.KindPositional:
		return kind, nil
	default:
		return "", fmt.Errorf("invalid --kind %q (want auto, %s or %s)", kind, qa.KindGeneric, qa.KindPositional)
	}
}

// collectTables merges positional arguments with the tables file.
func collectTables(args []string, tablesFile, defaultDB string) ([]qa.Table, error) {
	var tables []qa.Table
	seen := make(map[qa.Table]bool)
	add := func(t qa.Table) {
		if !seen[t] {
			seen[t] = true
			tables = append(tables, t)
		}
	}

	for _, arg := range args {
		t, err := qa.ParseTable(arg, defaultDB)
		if err != nil {
			return nil, err
		}
		add(t)
	}

	if tablesFile != "" {
		f, err := os.Open(tablesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open tables file: %w", err)
		}
		defer f.Close()
		listed, err := qa.ReadTableList(f, defaultDB)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", tablesFile, err)
		}
		for _, t := range listed {
			add(t)
		}
	}
	return tables, nil
}

// summaryError reports failed and aborted tables as a single error.
func summaryError(lines []report.Line) error {
	var failed, aborted int
	for _, l := range lines {
		switch l.Status() {
		case report.StatusFail:
			failed++
		case report.StatusAborted:
			aborted++
		}
	}
	if failed+aborted == 0 {
		return nil
	}
	return fmt.Errorf("QA failed: %d table(s) failed, %d aborted", failed, aborted)
}
