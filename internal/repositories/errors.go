package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var (
	ErrNotFound               = errors.New("record not found")
	ErrDuplicate              = errors.New("record already exists")
	ErrReferenced             = errors.New("record is referenced by another record")
	ErrEmptyCart              = errors.New("cart is empty")
	ErrMissingShippingAddress = errors.New("no shipping address on file")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrQuantityLimit          = errors.New("line quantity limit exceeded")
)

const (
	foreignKeyViolation = "23503"
	uniqueViolation     = "23505"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func pqCode(err error) (pq.ErrorCode, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code, true
	}

	return "", false
}

func IsForeignKeyViolation(err error) bool {
	code, ok := pqCode(err)
	return ok && code == foreignKeyViolation
}

func IsUniqueViolation(err error) bool {
	code, ok := pqCode(err)
	return ok && code == uniqueViolation
}

// IsIntegrityViolation reports any SQLSTATE class 23 error (check, not null,
// unique, foreign key, exclusion).
func IsIntegrityViolation(err error) bool {
	code, ok := pqCode(err)
	return ok && code.Class() == "23"
}

// rowsAffected turns a zero-row write into ErrNotFound.
func rowsAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if n == 0 {
		return ErrNotFound
	}

	return nil
}
