package h2

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/h2go/h2reflect/internal/database"
)

// mapError translates pgx / pgconn native errors into *database.DBError.
// H2's PG server reports errors with PostgreSQL SQLSTATE codes.
func mapError(err error, msg string) *database.DBError {
	if err == nil {
		return nil
	}

	// Context cancellation / deadline exceeded
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return database.WrapError(database.ErrKindTimeout, msg, err)
	}

	// No rows
	if errors.Is(err, pgx.ErrNoRows) {
		return database.WrapError(database.ErrKindNotFound, msg, err)
	}

	// Server-side error (SQLSTATE codes)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		kind := database.ErrKindQueryFailed
		// Class 08 — connection errors
		if len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08" {
			kind = database.ErrKindConnectionFailed
		}
		return database.WrapError(kind, fmt.Sprintf("%s: %s", msg, pgErr.Message), err)
	}

	// Fallthrough: connection-level errors (TLS, network, auth)
	return database.WrapError(database.ErrKindConnectionFailed, msg, err)
}
