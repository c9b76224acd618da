package migrator

import (
	"context"
	"fmt"
	"time"

	"github.com/dbsmedya/dbmover/internal/sqlutil"
)

// backupTimestampLayout gives backup table names second resolution. Two runs
// backing up the same table within the same second collide on the CREATE
// TABLE and surface as a BackupError instead of silently overwriting.
const backupTimestampLayout = "20060102150405"

// BackupName derives the shadow table name for a backup taken at the given
// time: <table>_backup_<timestamp>.
func BackupName(table string, at time.Time) string {
	return fmt.Sprintf("%s_backup_%s", table, at.Format(backupTimestampLayout))
}

// backupTable snapshots a target table into a uniquely named shadow table:
// a structure-only copy followed by a full row copy. Runs only against the
// target session. On failure the target data is untouched and the table's
// migration must not proceed to truncation or transfer.
//
// The backup table is left in place after the run; there is no automatic
// cleanup. Its name is recorded in logs only, not in the table's result.
func backupTable(ctx context.Context, session Execer, table string, at time.Time) (string, error) {
	backup := BackupName(table, at)

	quotedTable, err := sqlutil.QuoteIdentifierSafe(table)
	if err != nil {
		return "", &BackupError{Table: table, Err: err}
	}
	quotedBackup := sqlutil.QuoteIdentifier(backup)

	create := fmt.Sprintf("CREATE TABLE %s LIKE %s", quotedBackup, quotedTable)
	if _, err := session.ExecContext(ctx, create); err != nil {
		return "", &BackupError{Table: table, Err: err}
	}

	fill := fmt.Sprintf("INSERT INTO %s SELECT * FROM %s", quotedBackup, quotedTable)
	if _, err := session.ExecContext(ctx, fill); err != nil {
		return "", &BackupError{Table: table, Err: err}
	}

	return backup, nil
}
