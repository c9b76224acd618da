package schema

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columnsPattern = regexp.QuoteMeta(columnsQuery)

func TestInspect_ReturnsColumnsInOrdinalOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(columnsPattern).
		WithArgs("users").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME", "COLUMN_TYPE", "IS_NULLABLE", "COLUMN_DEFAULT", "COLUMN_KEY"}).
			AddRow("id", "int(11)", "NO", nil, "PRI").
			AddRow("email", "varchar(255)", "NO", nil, "UNI").
			AddRow("nickname", "varchar(64)", "YES", "anonymous", ""))

	s, err := Inspect(context.Background(), db, "users")

	require.NoError(t, err)
	require.Len(t, s.Columns, 3)
	assert.Equal(t, "users", s.Table)
	assert.Equal(t, []string{"id", "email", "nickname"}, columnNames(s))

	id, ok := s.Column("id")
	require.True(t, ok)
	assert.Equal(t, "int(11)", id.Type)
	assert.False(t, id.Nullable)
	assert.Equal(t, "PRI", id.Key)

	nickname, ok := s.Column("nickname")
	require.True(t, ok)
	assert.True(t, nickname.Nullable)
	require.True(t, nickname.Default.Valid)
	assert.Equal(t, "anonymous", nickname.Default.String)

	assert.True(t, s.Has("email"))
	assert.False(t, s.Has("missing"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInspect_MissingTable_ReturnsFetchError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(columnsPattern).
		WithArgs("ghosts").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME", "COLUMN_TYPE", "IS_NULLABLE", "COLUMN_DEFAULT", "COLUMN_KEY"}))

	s, err := Inspect(context.Background(), db, "ghosts")

	assert.Nil(t, s)
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "ghosts", fetchErr.Table)
	assert.Contains(t, err.Error(), "does not exist")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInspect_QueryFailure_ReturnsFetchError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(columnsPattern).
		WithArgs("users").
		WillReturnError(fmt.Errorf("connection refused"))

	_, err = Inspect(context.Background(), db, "users")

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "users", fetchErr.Table)
	assert.Contains(t, err.Error(), "connection refused")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func columnNames(s *Schema) []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}
