package repository

import (
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/iea-horarios-api/internal/models"
)

// ErrDuplicateKey reports a write rejected by a unique constraint.
var ErrDuplicateKey = errors.New("duplicate key")

const uniqueViolation = "23505"

// store is embedded by every repository; exec lets callers run writes inside their own transaction.
type store struct {
	db *sqlx.DB
}

func (s store) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return s.db
}

// writeError wraps err for op and maps unique violations to ErrDuplicateKey.
func writeError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w (%s)", op, ErrDuplicateKey, pqErr.Constraint)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func pageBounds(page, size int) (limit, offset int) {
	page, size = models.NormalizePage(page, size)
	return size, (page - 1) * size
}
