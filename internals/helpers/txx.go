package helper

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LockForUpdate applies a row lock on dialects that support it. sqlite (used
// by the test suite) has no FOR UPDATE; its writes are serialized anyway.
func LockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// IsConflict reports serialization/deadlock style failures worth one retry.
func IsConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "deadlock detected") ||
		strings.Contains(msg, "could not serialize access") ||
		strings.Contains(msg, "database is locked")
}

// RetryOnConflict runs fn, retrying exactly once when it fails with a
// conflict-class error. Any other error is returned as-is.
func RetryOnConflict(fn func() error) error {
	err := fn()
	if IsConflict(err) {
		err = fn()
	}
	return err
}

// IsUniqueViolation: portable duplicate-key detection (postgres + sqlite).
func IsUniqueViolation(err error) bool {
	return err != nil &&
		(strings.Contains(err.Error(), "duplicate key value") ||
			strings.Contains(err.Error(), "UNIQUE constraint failed") ||
			strings.Contains(err.Error(), "unique constraint"))
}
