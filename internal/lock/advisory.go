// Package lock provides MySQL advisory locking for dbmover runs.
package lock

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ErrLockTimeout is returned when lock acquisition times out because
// another instance is holding the lock.
var ErrLockTimeout = errors.New("lock acquisition timed out")

// acquireTimeoutSeconds is the GET_LOCK wait used for duplicate-run
// detection: fail fast rather than queue behind a running migration.
const acquireTimeoutSeconds = 1

// AdvisoryLock prevents two migration runs against the same source from
// executing concurrently. It uses MySQL's GET_LOCK() function to acquire a
// named lock that is automatically released when the connection closes or
// RELEASE_LOCK() is called.
type AdvisoryLock struct {
	db       *sql.DB
	lockName string
	held     bool
}

// NewRunLock creates an advisory lock scoped to one source database's
// migration runs. The lock is not acquired until AcquireOrFail is called.
func NewRunLock(db *sql.DB, database string) *AdvisoryLock {
	return &AdvisoryLock{
		db:       db,
		lockName: lockName(database),
	}
}

// AcquireOrFail attempts to acquire the lock with a short timeout.
// Returns ErrLockTimeout if another instance is holding the lock.
//
// MySQL GET_LOCK() return values:
//   - 1: lock was obtained successfully
//   - 0: timeout was reached without obtaining the lock
//   - NULL: an error occurred (e.g., out of memory, thread killed)
func (a *AdvisoryLock) AcquireOrFail(ctx context.Context) error {
	if a.held {
		return nil
	}

	var result sql.NullInt64
	err := a.db.QueryRowContext(ctx, "SELECT GET_LOCK(?, ?)", a.lockName, acquireTimeoutSeconds).Scan(&result)
	if err != nil {
		return fmt.Errorf("failed to execute GET_LOCK: %w", err)
	}

	if !result.Valid {
		return fmt.Errorf("GET_LOCK returned NULL for lock %q (possible database error)", a.lockName)
	}

	switch result.Int64 {
	case 1:
		a.held = true
		return nil
	case 0:
		return fmt.Errorf("%w: lock %q is held by another instance", ErrLockTimeout, a.lockName)
	default:
		return fmt.Errorf("unexpected GET_LOCK return value: %d", result.Int64)
	}
}

// Release releases the advisory lock. Locks also auto-release when the
// connection closes, but explicit release is preferred for clean shutdown.
func (a *AdvisoryLock) Release(ctx context.Context) error {
	if !a.held {
		return nil
	}

	var result sql.NullInt64
	err := a.db.QueryRowContext(ctx, "SELECT RELEASE_LOCK(?)", a.lockName).Scan(&result)
	if err != nil {
		return fmt.Errorf("failed to execute RELEASE_LOCK: %w", err)
	}

	a.held = false
	if !result.Valid {
		return fmt.Errorf("RELEASE_LOCK returned NULL for lock %q (lock did not exist)", a.lockName)
	}
	return nil
}

// IsHeld returns true if this lock is currently held by this instance.
func (a *AdvisoryLock) IsHeld() bool {
	return a.held
}

// LockName returns the name of the advisory lock.
func (a *AdvisoryLock) LockName() string {
	return a.lockName
}

// lockName creates a consistent, namespaced lock name for a source database.
func lockName(database string) string {
	sanitized := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			return r
		}
		return '_'
	}, database)

	return fmt.Sprintf("dbmover:run:%s", sanitized)
}
