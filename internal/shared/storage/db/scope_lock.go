package db

import (
	"context"
	"database/sql"
	"fmt"
)

// WithScopeLock runs fn in a transaction holding a transaction-scoped advisory
// lock on scope. Writers touching the same scope are serialized; the lock is
// released on commit or rollback.
func WithScopeLock(ctx context.Context, database *sql.DB, scope string, fn func(tx *sql.Tx) error) (err error) {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, scope); err != nil {
		return fmt.Errorf("lock scope %s: %w", scope, err)
	}
	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
