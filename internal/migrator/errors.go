package migrator

import "fmt"

// NoCommonColumnsError is returned when the source and target schemas of a
// table share no columns after ignore filtering. Fatal for the table, never
// retried.
type NoCommonColumnsError struct {
	Table string
}

func (e *NoCommonColumnsError) Error() string {
	return fmt.Sprintf("no common columns between source and target for table %q", e.Table)
}

// BackupError is returned when the target table could not be snapshotted.
// The table's migration must not proceed past this point.
type BackupError struct {
	Table string
	Err   error
}

func (e *BackupError) Error() string {
	return fmt.Sprintf("failed to back up target table %q: %v", e.Table, e.Err)
}

func (e *BackupError) Unwrap() error {
	return e.Err
}

// TransferWriteError is returned when a row write against the target fails
// mid-transfer. The transfer stops; the row count reflects only fully
// completed chunks.
type TransferWriteError struct {
	Table string
	Err   error
}

func (e *TransferWriteError) Error() string {
	return fmt.Sprintf("failed to write row to target table %q: %v", e.Table, e.Err)
}

func (e *TransferWriteError) Unwrap() error {
	return e.Err
}
