package qa

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/dbsmedya/tableqa/internal/report"
	"github.com/dbsmedya/tableqa/internal/sqlutil"
)

const updateTimeLayout = "2006-01-02 15:04:05"

// checkTableDescription requires a tableDescriptions row for the table.
func checkTableDescription(ctx context.Context, u *Unit) error {
	step, err := u.beginStep("checking table description")
	if err != nil {
		return err
	}
	defer step.End()

	if u.env.DB == nil {
		return fmt.Errorf("no database connection")
	}

	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE tableName = ?",
		sqlutil.QualifiedName(u.table.DB, "tableDescriptions"))

	var count int
	if err := u.env.DB.QueryRowContext(ctx, query, u.table.Name).Scan(&count); err != nil {
		return fmt.Errorf("failed to query tableDescriptions: %w", err)
	}

	if count == 0 {
		step.WriteLine("  no tableDescriptions entry")
	}
	step.Record(count == 0)
	return nil
}

// checkTableIndex requires at least one index on the table.
func checkTableIndex(ctx context.Context, u *Unit) error {
	step, err := u.beginStep("checking table index")
	if err != nil {
		return err
	}
	defer step.End()

	if u.env.DB == nil {
		return fmt.Errorf("no database connection")
	}

	const query = `
		SELECT COUNT(DISTINCT INDEX_NAME)
		FROM information_schema.STATISTICS
		WHERE TABLE_SCHEMA = ?
		AND TABLE_NAME = ?`

	var count int
	if err := u.env.DB.QueryRowContext(ctx, query, u.table.DB, u.table.Name).Scan(&count); err != nil {
		return fmt.Errorf("failed to query indexes: %w", err)
	}

	step.Writef("  %d index(es)", count)
	step.Record(count == 0)
	return nil
}

// collectTableStatus records row count, sizes and last update time.
func collectTableStatus(ctx context.Context, u *Unit) error {
	if u.env.DB == nil {
		return fmt.Errorf("no database connection")
	}

	const query = `
		SELECT TABLE_ROWS, DATA_LENGTH, INDEX_LENGTH, UPDATE_TIME
		FROM information_schema.TABLES
		WHERE TABLE_SCHEMA = ?
		AND TABLE_NAME = ?`

	var rows, dataSize, indexSize sql.NullInt64
	var updated sql.NullTime
	err := u.env.DB.QueryRowContext(ctx, query, u.table.DB, u.table.Name).Scan(&rows, &dataSize, &indexSize, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("table %s does not exist", u.table)
	}
	if err != nil {
		return fmt.Errorf("failed to query table status: %w", err)
	}

	fields := []struct {
		name  string
		value sql.NullInt64
	}{
		{report.FieldRows, rows},
		{report.FieldDataSize, dataSize},
		{report.FieldIndexSize, indexSize},
	}
	for _, f := range fields {
		if !f.value.Valid {
			continue
		}
		if err := u.summary.Set(f.name, strconv.FormatInt(f.value.Int64, 10)); err != nil {
			return err
		}
	}
	if updated.Valid {
		if err := u.summary.Set(report.FieldUpdateTime, updated.Time.Format(updateTimeLayout)); err != nil {
			return err
		}
	}
	return nil
}
