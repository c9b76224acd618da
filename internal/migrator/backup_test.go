package migrator

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var backupAt = time.Date(2026, 8, 30, 14, 5, 9, 0, time.UTC)

func TestBackupName(t *testing.T) {
	assert.Equal(t, "users_backup_20260830140509", BackupName("users", backupAt))
}

func TestBackupTable_CreatesAndFillsShadowTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE `users_backup_20260830140509` LIKE `users`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO `users_backup_20260830140509` SELECT \\* FROM `users`").
		WillReturnResult(sqlmock.NewResult(0, 42))

	name, err := backupTable(context.Background(), db, "users", backupAt)

	require.NoError(t, err)
	assert.Equal(t, "users_backup_20260830140509", name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBackupTable_CreateFailure_ReturnsBackupError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// A name collision within the same second surfaces here.
	mock.ExpectExec("CREATE TABLE `users_backup_20260830140509` LIKE `users`").
		WillReturnError(fmt.Errorf("table already exists"))

	name, err := backupTable(context.Background(), db, "users", backupAt)

	assert.Empty(t, name)
	var backupErr *BackupError
	require.ErrorAs(t, err, &backupErr)
	assert.Equal(t, "users", backupErr.Table)
	assert.Contains(t, err.Error(), "already exists")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBackupTable_FillFailure_ReturnsBackupError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE `users_backup_20260830140509` LIKE `users`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO `users_backup_20260830140509` SELECT \\* FROM `users`").
		WillReturnError(fmt.Errorf("disk full"))

	_, err = backupTable(context.Background(), db, "users", backupAt)

	var backupErr *BackupError
	require.ErrorAs(t, err, &backupErr)
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBackupTable_InvalidIdentifier_Rejected(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = backupTable(context.Background(), db, "users`--", backupAt)

	var backupErr *BackupError
	require.ErrorAs(t, err, &backupErr)
	assert.Contains(t, err.Error(), "invalid identifier")
}
