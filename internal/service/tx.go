package service

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// runTx executes fn inside a DB transaction. gorm commits when fn returns nil
// and rolls back on error or panic, releasing the connection on every path.
// When db is nil (unit tests with stub repositories) fn runs with a nil tx.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// txFailure keeps domain errors raised inside a transaction and turns any
// other failure into a generic operation-failed error.
func txFailure(err error) error {
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	return operationFailed(err)
}
