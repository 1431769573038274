// Package lock provides MySQL advisory locks that keep two tableqa workers
// from validating the same table at the same time.
package lock

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrLockTimeout is returned when another instance holds the lock.
var ErrLockTimeout = errors.New("lock acquisition timed out")

// Timeout values for lock acquisition (in seconds).
const (
	TimeoutImmediate = 0
	TimeoutShort     = 1
	TimeoutInfinite  = -1
)

// maxLockNameLen is MySQL's limit on GET_LOCK names.
const maxLockNameLen = 64

// AdvisoryLock is a named MySQL GET_LOCK lock. MySQL ties the lock to the
// session that took it, so the lock pins one connection from the pool until
// it is released.
type AdvisoryLock struct {
	db       *sql.DB
	conn     *sql.Conn
	lockName string
}

// NewAdvisoryLock creates a new advisory lock with the given name.
// The lock is not acquired until AcquireLock is called.
func NewAdvisoryLock(db *sql.DB, lockName string) *AdvisoryLock {
	return &AdvisoryLock{
		db:       db,
		lockName: lockName,
	}
}

// AcquireLock attempts to acquire the lock, waiting up to timeoutSeconds.
// It returns false without error when the timeout is reached.
//
// MySQL GET_LOCK() return values:
//   - 1: Lock was obtained successfully
//   - 0: Timeout was reached without obtaining the lock
//   - NULL: An error occurred (e.g., out of memory, thread killed)
func (a *AdvisoryLock) AcquireLock(ctx context.Context, timeoutSeconds int) (bool, error) {
	if a.conn != nil {
		return true, nil
	}

	conn, err := a.db.Conn(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to reserve connection for lock %q: %w", a.lockName, err)
	}

	var result sql.NullInt64
	if err := conn.QueryRowContext(ctx, "SELECT GET_LOCK(?, ?)", a.lockName, timeoutSeconds).Scan(&result); err != nil {
		conn.Close()
		return false, fmt.Errorf("failed to execute GET_LOCK: %w", err)
	}

	if !result.Valid {
		conn.Close()
		return false, fmt.Errorf("GET_LOCK returned NULL for lock %q (possible database error)", a.lockName)
	}

	switch result.Int64 {
	case 1:
		a.conn = conn
		return true, nil
	case 0:
		conn.Close()
		return false, nil
	default:
		conn.Close()
		return false, fmt.Errorf("unexpected GET_LOCK return value: %d", result.Int64)
	}
}

// ReleaseLock releases the lock and returns its connection to the pool.
// Releasing a lock that is not held is a no-op.
func (a *AdvisoryLock) ReleaseLock(ctx context.Context) error {
	if a.conn == nil {
		return nil
	}
	conn := a.conn
	a.conn = nil
	defer conn.Close()

	var result sql.NullInt64
	if err := conn.QueryRowContext(ctx, "SELECT RELEASE_LOCK(?)", a.lockName).Scan(&result); err != nil {
		return fmt.Errorf("failed to execute RELEASE_LOCK: %w", err)
	}
	if !result.Valid || result.Int64 != 1 {
		return fmt.Errorf("lock %q was not held by this session", a.lockName)
	}
	return nil
}

// IsHeld returns true if this lock is currently held by this instance.
func (a *AdvisoryLock) IsHeld() bool {
	return a.conn != nil
}

// LockName returns the name of the advisory lock.
func (a *AdvisoryLock) LockName() string {
	return a.lockName
}

// WithLock runs fn while holding the lock. The lock is released on every
// exit path, including a panic in fn.
func (a *AdvisoryLock) WithLock(ctx context.Context, timeoutSeconds int, fn func() error) error {
	acquired, err := a.AcquireLock(ctx, timeoutSeconds)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !acquired {
		return fmt.Errorf("%w: lock %q is held by another instance", ErrLockTimeout, a.lockName)
	}

	defer func() {
		// Released on a fresh context so cancellation of ctx does not leak the lock.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.ReleaseLock(releaseCtx)
	}()

	return fn()
}

// TableLockName builds the lock name for a table: "tableqa:table:hg38.knownGene".
// Names over MySQL's 64 character limit keep their prefix and end in a hash
// of the full name.
func TableLockName(db, table string) string {
	sanitize := func(s string) string {
		return strings.Map(func(r rune) rune {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
				return r
			}
			return '_'
		}, s)
	}

	name := fmt.Sprintf("tableqa:table:%s.%s", sanitize(db), sanitize(table))
	if len(name) <= maxLockNameLen {
		return name
	}

	sum := sha256.Sum256([]byte(name))
	suffix := hex.EncodeToString(sum[:8])
	return name[:maxLockNameLen-len(suffix)-1] + "~" + suffix
}

// WithTableLock runs fn while holding the table's lock, failing fast with
// ErrLockTimeout if another worker is checking the same table.
func WithTableLock(ctx context.Context, db *sql.DB, database, table string, fn func() error) error {
	return NewAdvisoryLock(db, TableLockName(database, table)).WithLock(ctx, TimeoutShort, fn)
}
