package store

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMockPostgresSource creates a PostgresSource backed by pgxmock for unit testing.
func newMockPostgresSource(t *testing.T, q AccountQuery) (*PostgresSource, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return newPostgresSource(mock, q, nil), mock
}

func TestPostgresSource_ListAccountIDs(t *testing.T) {
	s, mock := newMockPostgresSource(t, AccountQuery{})

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "eperson_id" FROM "eperson" ORDER BY "eperson_id"`)).
		WillReturnRows(pgxmock.NewRows([]string{"eperson_id"}).AddRow(1).AddRow(4).AddRow(9))

	ids, err := s.ListAccountIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 4, 9}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource_SchemaQualifiedTable(t *testing.T) {
	s, mock := newMockPostgresSource(t, AccountQuery{Table: "dspace.EPerson", IDColumn: "id"})

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id" FROM "dspace"."EPerson" ORDER BY "id"`)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	ids, err := s.ListAccountIDs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource_QueryError(t *testing.T) {
	s, mock := newMockPostgresSource(t, AccountQuery{})

	mock.ExpectQuery(`SELECT "eperson_id" FROM`).WillReturnError(fmt.Errorf("relation does not exist"))

	_, err := s.ListAccountIDs(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query account ids")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource_RowError(t *testing.T) {
	s, mock := newMockPostgresSource(t, AccountQuery{})

	mock.ExpectQuery(`SELECT "eperson_id" FROM`).
		WillReturnRows(pgxmock.NewRows([]string{"eperson_id"}).AddRow(1).RowError(0, fmt.Errorf("connection lost")))

	_, err := s.ListAccountIDs(context.Background())
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource_CloseCallsCloseFn(t *testing.T) {
	called := false
	s := newPostgresSource(nil, AccountQuery{}, func() { called = true })
	require.NoError(t, s.Close())
	assert.True(t, called)
}

func TestNewPostgres_BadConnString(t *testing.T) {
	_, err := NewPostgres(context.Background(), "://not a url", AccountQuery{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres: parse config")
}
