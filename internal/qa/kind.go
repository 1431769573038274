package qa

import (
	"context"
	"database/sql"
	"fmt"
)

// Kind names.
const (
	KindGeneric    = "generic"
	KindPositional = "positional"
)

// Check is one validation step group. Run records outcomes through steps and
// returns an error only for fatal conditions.
type Check struct {
	Name string
	Run  func(ctx context.Context, u *Unit) error
}

// Collector gathers statistics into the unit's summary row.
type Collector struct {
	Name string
	Run  func(ctx context.Context, u *Unit) error
}

// Kind is an ordered pipeline of checks and collectors for a class of table.
type Kind struct {
	Name       string
	Checks     []Check
	Collectors []Collector
}

// GenericKind returns the checks every table gets.
func GenericKind() *Kind {
	return &Kind{
		Name: KindGeneric,
		Checks: []Check{
			{Name: "table description", Run: checkTableDescription},
			{Name: "table index", Run: checkTableIndex},
		},
		Collectors: []Collector{
			{Name: "table status", Run: collectTableStatus},
		},
	}
}

// PositionalKind extends the generic pipeline for tables with genomic
// coordinates: label lengths, positionalTblCheck and checkTableCoords, then
// featureBits coverage.
func PositionalKind() *Kind {
	k := GenericKind()
	k.Name = KindPositional
	k.Checks = append(k.Checks,
		Check{Name: "label lengths", Run: checkLabelLengths},
		Check{Name: "positionalTblCheck", Run: positionalTblCheck},
		Check{Name: "checkTableCoords", Run: checkTableCoords},
	)
	k.Collectors = append(k.Collectors,
		Collector{Name: "feature coverage", Run: collectFeatureCoverage},
	)
	return k
}

// KindByName returns the pipeline for a kind name.
func KindByName(name string) (*Kind, error) {
	switch name {
	case KindGeneric:
		return GenericKind(), nil
	case KindPositional:
		return PositionalKind(), nil
	default:
		return nil, fmt.Errorf("unknown table kind %q (want %q or %q)", name, KindGeneric, KindPositional)
	}
}

var (
	chromColumns = map[string]bool{"chrom": true, "tName": true, "genoName": true}
	startColumns = map[string]bool{"chromStart": true, "txStart": true, "tStart": true, "genoStart": true}
)

// DetectKind inspects the table's columns: a chromosome column together with
// a start column makes it positional.
func DetectKind(ctx context.Context, db *sql.DB, t Table) (*Kind, error) {
	const query = `
		SELECT COLUMN_NAME
		FROM information_schema.COLUMNS
		WHERE TABLE_SCHEMA = ?
		AND TABLE_NAME = ?`

	rows, err := db.QueryContext(ctx, query, t.DB, t.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns of %s: %w", t, err)
	}
	defer rows.Close()

	var columns int
	var hasChrom, hasStart bool
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		columns++
		hasChrom = hasChrom || chromColumns[name]
		hasStart = hasStart || startColumns[name]
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if columns == 0 {
		return nil, fmt.Errorf("table %s does not exist", t)
	}
	if hasChrom && hasStart {
		return PositionalKind(), nil
	}
	return GenericKind(), nil
}
