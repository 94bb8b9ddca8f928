package repositories

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrDuplicate is returned when an insert hits a unique index
	ErrDuplicate = errors.New("duplicate record")
	// ErrNotFound is returned when a lookup or targeted write matches no row
	ErrNotFound = errors.New("record not found")
)

const (
	pgUniqueViolation   = "23505"
	pgInvalidTextSyntax = "22P02"
)

// validID reports whether id can be a primary key. Every key is a UUID, and
// Postgres rejects anything else on a uuid column instead of matching no row.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// isInvalidInput reports a Postgres value that failed to parse as the column type
func isInvalidInput(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgInvalidTextSyntax
}

// IsDuplicateKey reports whether err is a unique constraint violation from any supported driver
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, ErrDuplicate) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// translate maps driver errors onto the repository sentinels
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound), isInvalidInput(err):
		return ErrNotFound
	case IsDuplicateKey(err):
		return ErrDuplicate
	default:
		return err
	}
}
