package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"studynotes/internal/domain"
)

// isPgNoRowsError checks if error is a "no rows" error
func isPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func notFound(kind, id string) error {
	return &domain.NotFoundError{Message: fmt.Sprintf("%s not found: %s", kind, id)}
}
