package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when the target record does not exist
var ErrNotFound = errors.New("record not found")

// ErrAlreadyGrouped is returned when a product already belongs to another
// product group
var ErrAlreadyGrouped = errors.New("product already belongs to another group")

// isUniqueViolation reports whether the error is a Postgres unique-constraint
// violation (SQLSTATE 23505)
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
