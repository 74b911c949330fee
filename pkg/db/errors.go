package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolationCode = "23505"

// IsUniqueViolation reports whether the provided error references a unique
// constraint violation anywhere in its chain. When constraintName is given,
// only a violation of that constraint matches.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolationCode {
			return false
		}
		if constraintName != "" {
			return pgErr.ConstraintName == constraintName
		}
		return true
	}

	for unwrapped := err; unwrapped != nil; unwrapped = errors.Unwrap(unwrapped) {
		msg := unwrapped.Error()
		if constraintName != "" && strings.Contains(msg, constraintName) {
			return true
		}
		if constraintName == "" &&
			(strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed")) {
			return true
		}
	}
	return false
}
