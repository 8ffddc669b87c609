package services

import (
	"errors"
	"fmt"
)

// Domain error kinds. Callers match with errors.Is; the HTTP layer maps them to statuses.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConflict        = errors.New("conflict")
	ErrForbidden       = errors.New("forbidden")
	ErrExpired         = errors.New("expired")
	ErrStorage         = errors.New("storage failure")
)

// storageErr keeps both ErrStorage and the driver error in the chain.
func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

func notFound(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func conflict(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// domainOr wraps err as a storage failure unless it already carries a domain kind.
func domainOr(op string, err error) error {
	for _, kind := range []error{ErrNotFound, ErrInvalidArgument, ErrConflict, ErrForbidden, ErrExpired, ErrStorage} {
		if errors.Is(err, kind) {
			return err
		}
	}
	return storageErr(op, err)
}
