package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/wndmngr/farmregistry/apperrors"
)

// pgUniqueViolation is the Postgres SQLSTATE for unique constraint violations.
const pgUniqueViolation = "23505"

// IsUniqueViolation reports a unique-constraint failure from either dialect.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// dbError classifies a gorm error. subject names the entity in client-facing messages.
func dbError(err error, subject string) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &apperrors.Error{Kind: apperrors.KindNotFound, Message: fmt.Sprintf("%s not found", subject), Err: err}
	case IsUniqueViolation(err):
		return &apperrors.Error{Kind: apperrors.KindConflict, Message: fmt.Sprintf("%s already exists", subject), Err: err}
	}
	return apperrors.Persistence(err, "database operation on %s failed", subject)
}
