package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/courtside/padel-system/repositories"
)

// runSerializable wraps one engine operation in a serializable transaction.
// The callback either commits fully or the transaction is rolled back; a
// serialization failure surfaces as ErrStorageConflict so callers know the
// operation is retryable and left no partial state.
func runSerializable(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
		}
		if repositories.IsSerializationFailure(err) {
			return ErrStorageConflict
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		if repositories.IsSerializationFailure(err) {
			return ErrStorageConflict
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
