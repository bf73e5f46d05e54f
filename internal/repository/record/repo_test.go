package record

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domrec "github.com/kailas-cloud/hunt/internal/domain/record"
)

var postType = domrec.NewRegistry().MustRegister(domrec.Type{Name: `App\Post`, Table: "posts"})

func TestForEachBatch_PagesUntilShortChunk(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	sql := regexp.QuoteMeta(`SELECT * FROM "posts" ORDER BY "id" LIMIT $1 OFFSET $2`)
	mock.ExpectQuery(sql).
		WithArgs(2, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "title"}).
			AddRow(int64(1), "first").
			AddRow(int64(2), "second"))
	mock.ExpectQuery(sql).
		WithArgs(2, 2).
		WillReturnRows(pgxmock.NewRows([]string{"id", "title"}).
			AddRow(int64(3), "third"))

	var chunks [][]*domrec.Record
	err = New(mock).ForEachBatch(context.Background(), domrec.BatchQuery{Type: postType, Size: 2},
		func(c []*domrec.Record) error {
			chunks = append(chunks, c)
			return nil
		})

	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0], 2)
	assert.Equal(t, "third", chunks[1][0].GetString("title"))
	assert.True(t, chunks[1][0].Exists())
	assert.Equal(t, `App\Post`, chunks[0][0].TypeName())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestForEachBatch_EmptyTable(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts"`)).
		WithArgs(100, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	called := false
	err = New(mock).ForEachBatch(context.Background(), domrec.BatchQuery{Type: postType},
		func([]*domrec.Record) error {
			called = true
			return nil
		})

	require.NoError(t, err)
	assert.False(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestForEachBatch_WhereCondition(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts" WHERE "locale" = $1 ORDER BY "id" LIMIT $2 OFFSET $3`)).
		WithArgs("fr", 10, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "locale"}).AddRow(int64(1), "fr"))

	q := domrec.BatchQuery{
		Type:  postType,
		Size:  10,
		Where: []domrec.Condition{{Column: "locale", Value: "fr"}},
	}
	var got int
	err = New(mock).ForEachBatch(context.Background(), q, func(c []*domrec.Record) error {
		got += len(c)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestForEachBatch_QueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	dbErr := errors.New("relation \"posts\" does not exist")
	mock.ExpectQuery("SELECT").WillReturnError(dbErr)

	err = New(mock).ForEachBatch(context.Background(), domrec.BatchQuery{Type: postType},
		func([]*domrec.Record) error { return nil })

	assert.ErrorIs(t, err, dbErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestForEachBatch_CallbackErrorStops(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT").
		WithArgs(1, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))

	stop := errors.New("stop")
	err = New(mock).ForEachBatch(context.Background(), domrec.BatchQuery{Type: postType, Size: 1},
		func([]*domrec.Record) error { return stop })

	assert.ErrorIs(t, err, stop)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestForEachBatch_RequiresType(t *testing.T) {
	err := New(nil).ForEachBatch(context.Background(), domrec.BatchQuery{},
		func([]*domrec.Record) error { return nil })
	assert.Error(t, err)
}

func TestBuildQuery_QuotesIdentifiers(t *testing.T) {
	typ := domrec.NewRegistry().MustRegister(domrec.Type{Name: "weird", Table: `user"s`, KeyName: "uid"})
	sql, args := buildQuery(domrec.BatchQuery{Type: typ})

	assert.Equal(t, `SELECT * FROM "user""s" ORDER BY "uid" LIMIT $1 OFFSET $2`, sql)
	assert.Empty(t, args)
}

func TestNormalize_UUID(t *testing.T) {
	u := [16]byte{0x55, 0x0e, 0x84, 0x00, 0xe2, 0x9b, 0x41, 0xd4, 0xa7, 0x16, 0x44, 0x66, 0x55, 0x44, 0x00, 0x00}
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", normalize(u))
	assert.Equal(t, int64(7), normalize(int64(7)))
}
