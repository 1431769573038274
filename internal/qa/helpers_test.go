package qa

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/tableqa/internal/config"
	"github.com/dbsmedya/tableqa/internal/extcmd"
	"github.com/dbsmedya/tableqa/internal/logger"
	"github.com/dbsmedya/tableqa/internal/trackdb"
)

// fakeResolver serves track attributes from memory.
type fakeResolver struct {
	attrs map[string]map[string]string
	err   error
}

func (f *fakeResolver) Resolve(_ context.Context, track, attribute string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.attrs[track][attribute], nil
}

func labelsOf(short, long, parent string) map[string]string {
	return map[string]string{
		trackdb.AttrShortLabel: short,
		trackdb.AttrLongLabel:  long,
		trackdb.AttrParent:     parent,
	}
}

type testEnv struct {
	env      *Env
	mock     sqlmock.Sqlmock
	runner   *extcmd.Fake
	resolver *fakeResolver
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	te := &testEnv{
		mock:     mock,
		runner:   extcmd.NewFake(),
		resolver: &fakeResolver{attrs: map[string]map[string]string{}},
	}
	te.env = &Env{
		DB:        db,
		Resolvers: func(string) trackdb.AttributeResolver { return te.resolver },
		Runner:    te.runner,
		Checks:    config.DefaultConfig().Checks,
		Logger:    logger.NewNop(),
	}
	return te
}

func (te *testEnv) unit(table string, kind *Kind) (*Unit, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewUnit(Table{DB: "hg38", Name: table}, kind, te.env, &buf), &buf
}

func (te *testEnv) expectDescription(table string, count int) {
	te.mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM `hg38`\\.`tableDescriptions` WHERE tableName = \\?").
		WithArgs(table).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(count))
}

func (te *testEnv) expectIndexes(table string, count int) {
	te.mock.ExpectQuery(`information_schema\.STATISTICS`).
		WithArgs("hg38", table).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(count))
}

func (te *testEnv) expectBaseChecks(table string) {
	te.expectDescription(table, 1)
	te.expectIndexes(table, 2)
}

func (te *testEnv) expectTableStatus(table string) {
	te.mock.ExpectQuery(`information_schema\.TABLES`).
		WithArgs("hg38", table).
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_ROWS", "DATA_LENGTH", "INDEX_LENGTH", "UPDATE_TIME"}).
			AddRow(232000, 41943040, 8388608, time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)))
}

func validatorCmd(program, table string) extcmd.Command {
	return extcmd.New(program, "hg38", table)
}

func featureBitsCmd(table string, extra ...string) extcmd.Command {
	return extcmd.New("featureBits", append([]string{"-countGaps", "hg38", table}, extra...)...)
}

// scriptPassingTools makes every external program succeed for table.
func (te *testEnv) scriptPassingTools(table string) {
	te.runner.
		On(validatorCmd("positionalTblCheck", table), extcmd.Response{}).
		On(validatorCmd("checkTableCoords", table), extcmd.Response{}).
		On(featureBitsCmd(table), extcmd.Response{Stderr: "1000 bases of 3000 (33.333%) in intersection\n"}).
		On(featureBitsCmd(table, "gap"), extcmd.Response{Stderr: "0 bases of 3000 (0.000%) in intersection\n"})
}
