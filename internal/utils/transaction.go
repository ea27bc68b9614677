package utils

import (
	"errors"
	"net/http"

	"campus-forum/internal/interfaces"
	"campus-forum/internal/schemas"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// BeginTransaction begins a new database transaction on the request context.
// If the transaction fails to begin, it logs and sends an error response and
// returns nil.
func BeginTransaction(c *gin.Context, pool interfaces.PgxPoolIface) pgx.Tx {
	LogMessageWithFields(c, "debug", "Beginning transaction...")

	tx, err := pool.Begin(c)
	if err != nil {
		WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return nil
	}

	return tx
}

// RollbackTransaction rolls back the given transaction if an error occurred.
// Rolling back an already committed transaction is a no-op, so it is safe to
// defer this unconditionally.
func RollbackTransaction(c *gin.Context, tx pgx.Tx, err error) {
	if err == nil {
		return
	}

	LogMessageWithFieldsAndError(c, "debug", "Rolling back transaction", err)
	if rollbackErr := tx.Rollback(c); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
		LogMessageWithFieldsAndError(c, "error", "Error rolling back transaction", rollbackErr)
	}
}

// CommitTransaction attempts to commit the given transaction.
// If the commit fails, it logs the error, sends an error response, and returns the error.
func CommitTransaction(c *gin.Context, tx pgx.Tx) error {
	LogMessageWithFields(c, "debug", "Committing transaction...")

	if err := tx.Commit(c); err != nil {
		WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return err
	}

	LogMessageWithFields(c, "debug", "Transaction committed")
	return nil
}
