package services

import (
	"errors"
	"fmt"

	"github.com/javajoker/gearguard-backend/internal/store"
)

// Error classes. Handlers map each class to one HTTP status.
var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrPaymentProvider = errors.New("payment provider error")
	ErrUpload          = errors.New("upload failed")
	ErrInvalidInput    = errors.New("invalid input")
)

// Specific failures wrap their class.
var (
	ErrUserNotFound       = fmt.Errorf("%w: user", ErrNotFound)
	ErrAssetNotFound      = fmt.Errorf("%w: asset", ErrNotFound)
	ErrRequestNotFound    = fmt.Errorf("%w: request", ErrNotFound)
	ErrAssignmentNotFound = fmt.Errorf("%w: assignment", ErrNotFound)
	ErrEmployeeNotFound   = fmt.Errorf("%w: employee", ErrNotFound)
	ErrPackageNotFound    = fmt.Errorf("%w: package", ErrNotFound)

	ErrUserExists       = fmt.Errorf("%w: user already exists", ErrConflict)
	ErrAlreadyRequested = fmt.Errorf("%w: asset already requested", ErrConflict)
	ErrAlreadyProcessed = fmt.Errorf("%w: request already processed", ErrConflict)
	ErrAlreadyReturned  = fmt.Errorf("%w: asset already returned", ErrConflict)
	ErrAlreadyRemoved   = fmt.Errorf("%w: employee already removed", ErrConflict)
	ErrSeatLimitReached = fmt.Errorf("%w: package seat limit reached", ErrConflict)

	ErrInvalidSignature   = fmt.Errorf("%w: webhook signature", ErrInvalidInput)
	ErrInvalidProductType = fmt.Errorf("%w: product type", ErrInvalidInput)
	ErrInvalidImage       = fmt.Errorf("%w: image", ErrInvalidInput)
)

// notFound replaces store.ErrNotFound with the service-level error for the
// record that was missing.
func notFound(err error, specific error) error {
	if errors.Is(err, store.ErrNotFound) {
		return specific
	}
	return err
}
