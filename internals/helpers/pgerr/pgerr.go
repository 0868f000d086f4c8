package pgerr

import (
	"errors"
	"strings"

	"internlink_backend/internals/helpers/fault"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

func sqlState(err error) string {
	// pgx
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code
	}
	// lib/pq
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// IsUniqueViolation: pgx/pq + gorm.ErrDuplicatedKey (TranslateError: true,
// dipakai juga oleh driver sqlite di test).
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, fault.ErrUniqueViolation) {
		return true
	}
	if sqlState(err) == codeUniqueViolation {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "unique constraint failed")
}

func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) || errors.Is(err, fault.ErrForeignKeyViolation) {
		return true
	}
	if sqlState(err) == codeForeignKeyViolation {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint")
}

// MissingParent: FK violation saat insert berarti parent-nya terhapus di
// tengah jalan (mis. opportunity di-delete), jadi dijawab NotFound.
func MissingParent(err error, what string) error {
	if IsForeignKeyViolation(err) && !isFault(err) {
		return fault.NotFound(what + " not found")
	}
	return err
}

// Map membungkus error store menjadi fault dengan pesan aman.
func Map(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case isFault(err):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fault.NotFound(what + " not found")
	case IsUniqueViolation(err):
		return fault.Conflict("DUPLICATE", what+" already exists")
	case IsForeignKeyViolation(err):
		return fault.Validation(what + " references a missing record")
	default:
		return fault.Internal("failed to persist "+what, err)
	}
}

func isFault(err error) bool {
	_, ok := fault.As(err)
	return ok
}
