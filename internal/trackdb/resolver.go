// Package trackdb resolves track attributes from trackDb metadata and walks
// track parent chains to collect display labels.
package trackdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/dbsmedya/tableqa/internal/extcmd"
)

// Attribute names used by the label checks.
const (
	AttrShortLabel = "shortLabel"
	AttrLongLabel  = "longLabel"
	AttrParent     = "parent"
)

// ErrResolver marks a failure of the metadata lookup itself, as opposed to an
// absent attribute. Callers treat it as fatal.
var ErrResolver = errors.New("track attribute lookup failed")

// AttributeResolver looks up one attribute of one track. An absent attribute
// or unknown track yields "" and a nil error.
type AttributeResolver interface {
	Resolve(ctx context.Context, track, attribute string) (string, error)
}

// TdbQuery resolves attributes with the tdbQuery program.
type TdbQuery struct {
	runner  extcmd.Runner
	program string
	db      string
}

// NewTdbQuery creates a resolver running program against database db.
func NewTdbQuery(runner extcmd.Runner, program, db string) *TdbQuery {
	return &TdbQuery{runner: runner, program: program, db: db}
}

// TdbQuerySelect builds the tdbQuery statement selecting attribute of track.
func TdbQuerySelect(attribute, db, track string) string {
	return fmt.Sprintf("select %s from %s where track='%s'", attribute, db, track)
}

// Resolve implements AttributeResolver. tdbQuery prints matching records as
// "<attribute> <value>" lines, and nothing when the attribute is absent.
func (q *TdbQuery) Resolve(ctx context.Context, track, attribute string) (string, error) {
	if strings.ContainsAny(track, "'\\\n") {
		return "", errors.Mark(
			errors.Newf("%s.%s of track %q: track name cannot be quoted for tdbQuery", q.db, attribute, track),
			ErrResolver,
		)
	}
	cmd := extcmd.New(q.program, TdbQuerySelect(attribute, q.db, track))

	stdout, _, err := extcmd.Output(ctx, q.runner, cmd)
	if err != nil {
		return "", errors.WithHint(
			errors.Mark(errors.Wrapf(err, "%s.%s of track %q", q.db, attribute, track), ErrResolver),
			"check that tdbQuery is on PATH and can reach the trackDb files or database",
		)
	}

	out := strings.TrimSpace(stdout)
	if out == "" {
		return "", nil
	}
	if !strings.HasPrefix(out, attribute) {
		return "", errors.Mark(
			errors.Newf("%s.%s of track %q: unexpected tdbQuery output %q", q.db, attribute, track, firstLine(out)),
			ErrResolver,
		)
	}
	return strings.TrimSpace(strings.TrimPrefix(out, attribute)), nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
