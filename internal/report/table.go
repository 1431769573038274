package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"
)

// Status values shown in the summary table.
const (
	StatusPass    = "PASS"
	StatusFail    = "FAIL"
	StatusAborted = "ABORTED"
)

// Line is one table's outcome in the run summary.
type Line struct {
	DB      string
	Table   string
	Kind    string
	Tally   Tally
	Summary *SummaryRow
	Err     error
}

// Status classifies the line: aborted on a fatal error, failed on any
// recorded error, otherwise passed.
func (l Line) Status() string {
	switch {
	case l.Err != nil:
		return StatusAborted
	case l.Tally.Errors > 0:
		return StatusFail
	default:
		return StatusPass
	}
}

var summaryColumns = []string{"TABLE", "KIND", "PASS", "ERR", "STATUS", FieldRows, FieldFeatureBits, FieldFeatureBitsGaps}

// WriteSummary renders an aligned summary table of lines to w. Status cells
// are coloured when useColor is set; alignment is computed on the plain text.
func WriteSummary(w io.Writer, runID string, lines []Line, useColor bool) error {
	rows := make([][]string, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, []string{
			l.DB + "." + l.Table,
			l.Kind,
			strconv.Itoa(l.Tally.Passes),
			strconv.Itoa(l.Tally.Errors),
			l.Status(),
			summaryField(l.Summary, FieldRows),
			summaryField(l.Summary, FieldFeatureBits),
			summaryField(l.Summary, FieldFeatureBitsGaps),
		})
	}

	widths := make([]int, len(summaryColumns))
	for i, h := range summaryColumns {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "QA run %s: %d table(s)\n", runID, len(lines))
	writeRow(&b, summaryColumns, widths, false)
	for _, row := range rows {
		writeRow(&b, row, widths, useColor)
	}

	var failed, aborted int
	for _, l := range lines {
		switch l.Status() {
		case StatusFail:
			failed++
		case StatusAborted:
			aborted++
		}
	}
	fmt.Fprintf(&b, "%d passed, %d failed, %d aborted\n", len(lines)-failed-aborted, failed, aborted)
	for _, l := range lines {
		if l.Err != nil {
			fmt.Fprintf(&b, "  %s.%s: %v\n", l.DB, l.Table, l.Err)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

const statusColumn = 4

func writeRow(b *strings.Builder, cells []string, widths []int, useColor bool) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteString("  ")
		}
		padded := cell
		if i < len(cells)-1 {
			padded = runewidth.FillRight(cell, widths[i])
		}
		if useColor && i == statusColumn {
			padded = colorize(cell) + strings.Repeat(" ", runewidth.StringWidth(padded)-runewidth.StringWidth(cell))
		}
		b.WriteString(padded)
	}
	b.WriteString("\n")
}

func colorize(status string) string {
	switch status {
	case StatusPass:
		return color.Green.Sprint(status)
	case StatusFail:
		return color.Red.Sprint(status)
	default:
		return color.Yellow.Sprint(status)
	}
}

func summaryField(row *SummaryRow, field string) string {
	if row == nil {
		return "-"
	}
	if v, ok := row.Get(field); ok && v != "" {
		return v
	}
	return "-"
}
