package helpers

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var ErrCommitFailed = errors.New("failed to commit transaction")

// WrapTxAndCommit runs fn in a transaction. When tx is non-nil fn joins it and the caller
// owns the commit; otherwise a new transaction is opened, committed on success and rolled
// back on error. A failed commit is reported as ErrCommitFailed.
func WrapTxAndCommit[T any](fn func(*gorm.DB) (T, error), db *gorm.DB, tx *gorm.DB) (T, error) {
	exists := tx != nil

	if !exists {
		tx = db.Begin()
		if tx.Error != nil {
			var zero T
			return zero, tx.Error
		}
	}

	res, err := fn(tx)

	if err != nil && !exists {
		tx.Rollback()
	}
	if err == nil && !exists {
		if cerr := tx.Commit().Error; cerr != nil {
			return res, fmt.Errorf("%w: %w", ErrCommitFailed, cerr)
		}
	}
	return res, err
}
