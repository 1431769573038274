package trackdb

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/dbsmedya/tableqa/internal/sqlutil"
)

// TrackDB resolves attributes straight from a trackDb MySQL table.
// shortLabel and longLabel are columns; everything else, parent included,
// lives in the settings blob as "name value" lines.
type TrackDB struct {
	db       *sql.DB
	database string
	table    string
}

// NewTrackDB creates a resolver reading database.table (usually hg38.trackDb).
func NewTrackDB(db *sql.DB, database, table string) *TrackDB {
	return &TrackDB{db: db, database: database, table: table}
}

// Resolve implements AttributeResolver.
func (t *TrackDB) Resolve(ctx context.Context, track, attribute string) (string, error) {
	query := fmt.Sprintf("SELECT shortLabel, longLabel, settings FROM %s WHERE tableName = ?",
		sqlutil.QualifiedName(t.database, t.table))

	var shortLabel, longLabel, settings sql.NullString
	err := t.db.QueryRowContext(ctx, query, track).Scan(&shortLabel, &longLabel, &settings)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", errors.Mark(errors.Wrapf(err, "query %s.%s for track %q", t.database, t.table, track), ErrResolver)
	}

	switch attribute {
	case AttrShortLabel:
		return strings.TrimSpace(shortLabel.String), nil
	case AttrLongLabel:
		return strings.TrimSpace(longLabel.String), nil
	default:
		return settingValue(settings.String, attribute), nil
	}
}

// settingValue finds name in a trackDb settings blob. Only the first word of
// each line is the setting name; the rest of the line is its value.
func settingValue(settings, name string) string {
	scanner := bufio.NewScanner(strings.NewReader(settings))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		key, value, _ := strings.Cut(line, " ")
		if key == name {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
