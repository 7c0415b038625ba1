// Package pgerrs classifies PostgreSQL driver errors for the repositories.
package pgerrs

import (
	"errors"

	"fulfillment/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a unique-constraint violation. With a
// non-empty constraint only violations of that index or constraint match.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode && (constraint == "" || pgErr.ConstraintName == constraint)
	}
	return constraint == "" && errors.Is(err, gorm.ErrDuplicatedKey)
}

// Persistence wraps a store failure. Domain and contention errors pass through.
func Persistence(operation string, err error) error {
	if err == nil {
		return nil
	}
	return errs.NewPersistenceError(operation, err)
}
