package trackdb

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/tableqa/internal/extcmd"
)

func tdbQueryCmd(attribute, track string) extcmd.Command {
	return extcmd.New("tdbQuery", TdbQuerySelect(attribute, "hg38", track))
}

func TestTdbQuerySelect(t *testing.T) {
	assert.Equal(t, "select shortLabel from hg38 where track='knownGene'",
		TdbQuerySelect("shortLabel", "hg38", "knownGene"))
}

func TestTdbQuery_Resolve(t *testing.T) {
	fake := extcmd.NewFake().
		On(tdbQueryCmd("shortLabel", "knownGene"), extcmd.Response{Stdout: "shortLabel UCSC Genes\n\n"}).
		On(tdbQueryCmd("parent", "knownGene"), extcmd.Response{Stdout: ""}).
		On(tdbQueryCmd("longLabel", "broken"), extcmd.Response{Stderr: "no such database\n", ExitCode: 255}).
		On(tdbQueryCmd("longLabel", "garbled"), extcmd.Response{Stdout: "track garbled\n"})

	q := NewTdbQuery(fake, "tdbQuery", "hg38")
	ctx := context.Background()

	v, err := q.Resolve(ctx, "knownGene", "shortLabel")
	require.NoError(t, err)
	assert.Equal(t, "UCSC Genes", v)

	v, err = q.Resolve(ctx, "knownGene", "parent")
	require.NoError(t, err, "absence is not an error")
	assert.Equal(t, "", v)

	_, err = q.Resolve(ctx, "broken", "longLabel")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrResolver), "non-zero exit is a resolver failure")

	var exitErr *extcmd.ExitError
	assert.True(t, errors.As(err, &exitErr))

	_, err = q.Resolve(ctx, "garbled", "longLabel")
	assert.True(t, errors.Is(err, ErrResolver), "unexpected output is a resolver failure")
}

func TestTdbQuery_ProgramMissing(t *testing.T) {
	fake := extcmd.NewFake().On(tdbQueryCmd("shortLabel", "x"), extcmd.Response{Err: errors.New("exec: not found")})

	_, err := NewTdbQuery(fake, "tdbQuery", "hg38").Resolve(context.Background(), "x", "shortLabel")
	assert.True(t, errors.Is(err, ErrResolver))
}

func TestTdbQuery_UnquotableTrack(t *testing.T) {
	fake := extcmd.NewFake()
	q := NewTdbQuery(fake, "tdbQuery", "hg38")

	for _, track := range []string{"o'brien", `back\slash`, "two\nlines"} {
		t.Run(track, func(t *testing.T) {
			_, err := q.Resolve(context.Background(), track, AttrShortLabel)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrResolver))
			assert.Contains(t, err.Error(), "cannot be quoted")
		})
	}
	assert.Empty(t, fake.Calls(), "tdbQuery is never run for such names")
}

func TestCollectLabels_UnquotableParent(t *testing.T) {
	fake := extcmd.NewFake().
		On(tdbQueryCmd(AttrShortLabel, "knownGene"), extcmd.Response{Stdout: "shortLabel UCSC Genes\n"}).
		On(tdbQueryCmd(AttrLongLabel, "knownGene"), extcmd.Response{Stdout: "longLabel UCSC Genes\n"}).
		On(tdbQueryCmd(AttrParent, "knownGene"), extcmd.Response{Stdout: "parent gene's super\n"})

	_, err := CollectLabels(context.Background(), NewTdbQuery(fake, "tdbQuery", "hg38"), "knownGene")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrResolver))
	assert.Len(t, fake.Calls(), 3)
}
