package services

import (
	"errors"
	"fmt"

	"github.com/ArowuTest/leadflow-backend/internal/repositories"
)

// Error kinds the handlers map onto HTTP statuses
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrDuplicate  = errors.New("duplicate")
)

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// storeError translates repository sentinels. what names the resource in messages.
func storeError(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return fmt.Errorf("%w: %s not found", ErrNotFound, what)
	case errors.Is(err, repositories.ErrDuplicateKey):
		return fmt.Errorf("%w: %s already exists", ErrDuplicate, what)
	default:
		return err
	}
}
