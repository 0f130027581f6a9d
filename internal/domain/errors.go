package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}

	// ForbiddenError indicates the caller may not access a restricted node
	ForbiddenError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }
func (e *ForbiddenError) Error() string    { return e.Message }

func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *ForbiddenError) StatusCode() int    { return http.StatusForbidden }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// ErrIndexUnavailable is returned by store adapters when the backing
	// store cannot serve a compound filter+sort query. It never reaches a
	// caller outside the resilient query layer, which absorbs it by
	// degrading to client-side filtering and sorting.
	ErrIndexUnavailable = errors.New("composite index unavailable")

	// ErrSlotUnmatched is returned when a personal document could not be
	// traced back to any attachment slot on the owning profile.
	ErrSlotUnmatched = errors.New("no matching profile attachment slot")
)

// StorageError wraps a blob-store failure that is logged but must not block
// the record mutation it accompanies. NotFound and AccessDenied report the
// tolerated classes: the object is already gone, or the store refused a
// delete the record mutation never depended on.
type StorageError struct {
	Op           string // "delete", "presign"
	Path         string
	NotFound     bool
	AccessDenied bool
	Err          error
}

func (e *StorageError) Error() string {
	return "storage " + e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error { return e.Err }

// Tolerable reports whether a best-effort blob cleanup may swallow the failure.
func (e *StorageError) Tolerable() bool { return e.NotFound || e.AccessDenied }
