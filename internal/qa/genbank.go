package qa

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"
	"strings"
)

// GenbankTables matches tables maintained by the GenBank pipeline, which are
// exempt from positionalTblCheck. A nil *GenbankTables matches nothing.
type GenbankTables struct {
	patterns []*regexp.Regexp
}

// ParseGenbankTables reads one table-name regular expression per line.
// Patterns match whole names; '#' starts a comment line.
func ParseGenbankTables(r io.Reader) (*GenbankTables, error) {
	g := &GenbankTables{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		re, err := regexp.Compile("^(?:" + strings.TrimSuffix(strings.TrimPrefix(line, "^"), "$") + ")$")
		if err != nil {
			return nil, fmt.Errorf("invalid GenBank table pattern %q: %w", line, err)
		}
		g.patterns = append(g.patterns, re)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return g, nil
}

// LoadGenbankTables reads the list at path. A missing file yields nil and no
// error, which disables the exemption.
func LoadGenbankTables(path string) (*GenbankTables, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open GenBank table list: %w", err)
	}
	defer f.Close()
	return ParseGenbankTables(f)
}

// Matches reports whether table is GenBank-managed.
func (g *GenbankTables) Matches(table string) bool {
	if g == nil {
		return false
	}
	for _, re := range g.patterns {
		if re.MatchString(table) {
			return true
		}
	}
	return false
}

// Len returns the number of patterns.
func (g *GenbankTables) Len() int {
	if g == nil {
		return 0
	}
	return len(g.patterns)
}
