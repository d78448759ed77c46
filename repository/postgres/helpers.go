package postgres

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/setuponce/backend/domain"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

type scanner interface {
	Scan(dest ...interface{}) error
}

func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

// translate maps driver errors onto domain errors. notFound is returned for
// pgx.ErrNoRows.
func translate(err error, notFound *domain.Error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return domain.WrapError(domain.ErrCodeConflict, "record already exists", err)
		case pgForeignKeyViolation:
			return domain.WrapError(domain.ErrCodeInvalid, "referenced record does not exist in this business", err)
		case pgCheckViolation:
			return domain.WrapError(domain.ErrCodeInvalid, "value out of range", err)
		}
	}
	return err
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

func affected(tag pgconn.CommandTag, notFound *domain.Error) error {
	if tag.RowsAffected() == 0 {
		return notFound
	}
	return nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 100
	}
	return limit
}
