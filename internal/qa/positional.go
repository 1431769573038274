package qa

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dbsmedya/tableqa/internal/extcmd"
	"github.com/dbsmedya/tableqa/internal/report"
	"github.com/dbsmedya/tableqa/internal/trackdb"
)

// intersectionSuffix trails every featureBits result line.
const intersectionSuffix = "in intersection"

// checkLabelLengths checks every short and long label of the table's track
// and its ancestors against the configured limits. Each label is one outcome.
func checkLabelLengths(ctx context.Context, u *Unit) error {
	return labelLengths(ctx, u, u.env.Checks.ShortLabelLimit, u.env.Checks.LongLabelLimit)
}

func labelLengths(ctx context.Context, u *Unit, shortLimit, longLimit int) error {
	step, err := u.beginStep("checking label lengths")
	if err != nil {
		return err
	}
	defer step.End()

	if u.resolver == nil {
		return fmt.Errorf("no track attribute resolver configured")
	}

	labels, err := trackdb.CollectLabels(ctx, u.resolver, u.table.Name)
	if err != nil {
		return err
	}

	record := func(label string, limit int) {
		step.WriteLine("  " + label)
		tooLong := LabelTooLong(label, limit)
		if tooLong {
			step.Writef("    too long: %d characters, limit %d", LabelLength(label), limit)
		}
		step.Record(tooLong)
	}
	for _, label := range labels.Short {
		record(label, shortLimit)
	}
	for _, label := range labels.Long {
		record(label, longLimit)
	}
	return nil
}

// LabelLength counts a label in characters.
func LabelLength(label string) int {
	return utf8.RuneCountInString(label)
}

// LabelTooLong reports whether label has more than limit characters.
func LabelTooLong(label string, limit int) bool {
	return LabelLength(label) > limit
}

// positionalTblCheck runs positionalTblCheck unless the table is managed by
// the GenBank pipeline.
func positionalTblCheck(ctx context.Context, u *Unit) error {
	return runValidator(ctx, u, u.env.Checks.PositionalTblCheck, u.env.Genbank.Matches(u.table.Name))
}

// checkTableCoords runs checkTableCoords.
func checkTableCoords(ctx context.Context, u *Unit) error {
	return runValidator(ctx, u, u.env.Checks.CheckTableCoords, false)
}

// runValidator runs "<program> <db> <table>" in a step named after the
// program. Its output streams into the step; exit status alone decides the
// outcome, and a program that cannot start counts as a failure.
func runValidator(ctx context.Context, u *Unit, program string, skip bool) error {
	step, err := u.beginStep(program)
	if err != nil {
		return err
	}
	defer step.End()

	if skip {
		step.WriteLine("  skipped: table is managed by the GenBank pipeline")
		return nil
	}

	cmd := extcmd.New(program, u.table.DB, u.table.Name)
	step.WriteCommand(cmd.String())

	log := u.log.WithStep(program)
	code, err := u.env.Runner.Run(ctx, cmd, step.Writer(), step.Writer())
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		log.Warnw("Validator did not run", "error", err)
		step.Writef("  %v", err)
		step.Fail()
		return nil
	}

	log.Debugw("Validator finished", "exit_code", code)
	if code != 0 {
		step.Writef("  exit status %d", code)
	}
	step.Record(code != 0)
	return nil
}

// collectFeatureCoverage runs featureBits over the table alone and against
// the gap table, storing both coverage strings.
func collectFeatureCoverage(ctx context.Context, u *Unit) error {
	program := u.env.Checks.FeatureBits
	runs := []struct {
		field string
		cmd   extcmd.Command
	}{
		{report.FieldFeatureBits, extcmd.New(program, "-countGaps", u.table.DB, u.table.Name)},
		{report.FieldFeatureBitsGaps, extcmd.New(program, "-countGaps", u.table.DB, u.table.Name, u.env.Checks.GapTable)},
	}

	for _, r := range runs {
		u.log.Debugw("Running featureBits", "command", r.cmd.String())
		// featureBits reports on stderr, not stdout.
		_, stderr, err := extcmd.Output(ctx, u.env.Runner, r.cmd)
		if err != nil {
			return err
		}
		if err := u.summary.Set(r.field, StripIntersection(lastLine(stderr))); err != nil {
			return err
		}
	}
	return nil
}

// StripIntersection removes the trailing "in intersection" phrase and
// surrounding whitespace from a featureBits result line. The phrase is only
// removed at the end of the line.
func StripIntersection(line string) string {
	s := strings.TrimSpace(line)
	s = strings.TrimSuffix(s, intersectionSuffix)
	return strings.TrimSpace(s)
}

// lastLine returns the last non-blank line; featureBits may print warnings
// before its result.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return lines[len(lines)-1]
}
