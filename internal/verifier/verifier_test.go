package verifier

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const countPattern = "SELECT COUNT\\(\\*\\) FROM `users`"

func TestCheckRowCount_Match(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(countPattern).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(int64(42)))

	err = CheckRowCount(context.Background(), db, "users", 42)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckRowCount_Mismatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(countPattern).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(int64(43)))

	err = CheckRowCount(context.Background(), db, "users", 42)

	var mismatch *CountMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "users", mismatch.Table)
	assert.Equal(t, int64(43), mismatch.Source)
	assert.Equal(t, int64(42), mismatch.Migrated)
	assert.Contains(t, err.Error(), "row count mismatch")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckRowCount_QueryFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(countPattern).WillReturnError(fmt.Errorf("lost connection"))

	err = CheckRowCount(context.Background(), db, "users", 42)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "lost connection")
}

func TestCheckRowCount_InvalidIdentifier(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	err = CheckRowCount(context.Background(), db, "users;--", 0)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid identifier")
}
