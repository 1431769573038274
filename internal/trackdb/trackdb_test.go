package trackdb

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trackDBQuery = "SELECT shortLabel, longLabel, settings FROM `hg38`.`trackDb` WHERE tableName = ?"

func TestTrackDB_Resolve(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	settings := "group genes\nparent knownGeneSuper on\nvisibility pack\n"
	for i := 0; i < 3; i++ {
		mock.ExpectQuery(trackDBQuery).WithArgs("knownGene").
			WillReturnRows(sqlmock.NewRows([]string{"shortLabel", "longLabel", "settings"}).
				AddRow("UCSC Genes", "UCSC Genes Based on RefSeq ", settings))
	}

	r := NewTrackDB(db, "hg38", "trackDb")
	ctx := context.Background()

	v, err := r.Resolve(ctx, "knownGene", AttrShortLabel)
	require.NoError(t, err)
	assert.Equal(t, "UCSC Genes", v)

	v, err = r.Resolve(ctx, "knownGene", AttrLongLabel)
	require.NoError(t, err)
	assert.Equal(t, "UCSC Genes Based on RefSeq", v)

	v, err = r.Resolve(ctx, "knownGene", AttrParent)
	require.NoError(t, err)
	assert.Equal(t, "knownGeneSuper on", v)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrackDB_MissingTrackAndSetting(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(trackDBQuery).WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"shortLabel", "longLabel", "settings"}))
	mock.ExpectQuery(trackDBQuery).WithArgs("rootTrack").
		WillReturnRows(sqlmock.NewRows([]string{"shortLabel", "longLabel", "settings"}).
			AddRow("Root", "Root Track", nil))

	r := NewTrackDB(db, "hg38", "trackDb")

	v, err := r.Resolve(context.Background(), "nope", AttrShortLabel)
	require.NoError(t, err)
	assert.Equal(t, "", v)

	v, err = r.Resolve(context.Background(), "rootTrack", AttrParent)
	require.NoError(t, err)
	assert.Equal(t, "", v)
}

func TestTrackDB_QueryFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(trackDBQuery).WithArgs("knownGene").WillReturnError(errors.New("connection refused"))

	_, err = NewTrackDB(db, "hg38", "trackDb").Resolve(context.Background(), "knownGene", AttrParent)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrResolver))
}

func TestSettingValue(t *testing.T) {
	settings := "type bigWig 0 100\nparentX nope\nparent super\n"
	assert.Equal(t, "super", settingValue(settings, "parent"))
	assert.Equal(t, "bigWig 0 100", settingValue(settings, "type"))
	assert.Equal(t, "", settingValue(settings, "priority"))
}
