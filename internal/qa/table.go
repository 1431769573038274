package qa

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dbsmedya/tableqa/internal/sqlutil"
)

// Table identifies a table under QA.
type Table struct {
	DB   string
	Name string
}

// String returns "db.table".
func (t Table) String() string {
	return t.DB + "." + t.Name
}

// ParseTable parses "db.table", or a bare table name qualified with
// defaultDB. Both parts must be plain identifiers.
func ParseTable(s, defaultDB string) (Table, error) {
	s = strings.TrimSpace(s)
	db, name, qualified := strings.Cut(s, ".")
	if !qualified {
		db, name = defaultDB, s
	}
	if db == "" {
		return Table{}, fmt.Errorf("table %q: no database given and no default database configured", s)
	}
	if err := sqlutil.ValidateIdentifier(db); err != nil {
		return Table{}, fmt.Errorf("table %q: %w", s, err)
	}
	if err := sqlutil.ValidateIdentifier(name); err != nil {
		return Table{}, fmt.Errorf("table %q: %w", s, err)
	}
	return Table{DB: db, Name: name}, nil
}

// ReadTableList parses one table per line. Blank lines and lines starting
// with '#' are skipped. Duplicates are dropped, keeping first occurrence.
func ReadTableList(r io.Reader, defaultDB string) ([]Table, error) {
	var tables []Table
	seen := make(map[Table]bool)

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		t, err := ParseTable(line, defaultDB)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		if !seen[t] {
			seen[t] = true
			tables = append(tables, t)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read table list: %w", err)
	}
	return tables, nil
}
