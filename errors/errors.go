// Package errors provides error handling for Compass.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Sentinel marking for type-safe checks
//   - User-facing hints for the authoring UI
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Add hints for authors
//	return errors.WithHint(err, "fork the published version to edit it")
//
//	// Check errors
//	if errors.Is(err, errors.ErrImmutableRecord) {
//	    // guide the author to fork
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint        = crdb.WithHint
	WithHintf       = crdb.WithHintf
	WithDetail      = crdb.WithDetail
	WithDetailf     = crdb.WithDetailf
	GetAllHints     = crdb.GetAllHints
	GetAllDetails   = crdb.GetAllDetails
	FlattenHints    = crdb.FlattenHints
	FlattenDetails  = crdb.FlattenDetails
)

// Error inspection
var (
	Is         = crdb.Is
	IsAny      = crdb.IsAny
	As         = crdb.As
	Unwrap     = crdb.Unwrap
	UnwrapOnce = crdb.UnwrapOnce
	UnwrapAll  = crdb.UnwrapAll
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Sentinel errors for the taxonomy and curriculum core.
// Use these with errors.Is() for type-safe error checking.
// Wrap or Mark these to add context while preserving the type.
var (
	// ErrNotFound indicates the requested record does not exist
	ErrNotFound = New("not found")

	// ErrInvalidRequest indicates the request was malformed or invalid
	ErrInvalidRequest = New("invalid request")

	// ErrValidationFailed indicates publish validation produced blocking violations
	ErrValidationFailed = New("validation failed")

	// ErrImmutableRecord indicates an edit was attempted on a non-draft record
	ErrImmutableRecord = New("record is not editable")

	// ErrUnknownTag indicates a tag id that does not resolve in its catalog
	ErrUnknownTag = New("unknown tag")

	// ErrTagNotActive indicates a tag that exists but is disabled
	ErrTagNotActive = New("tag is not active")

	// ErrOutOfRange indicates a growth-path level outside the canonical ladder
	ErrOutOfRange = New("growth path level out of range")

	// ErrInvalidTransition indicates a lifecycle action not permitted from the
	// entity's current status
	ErrInvalidTransition = New("invalid lifecycle transition")

	// ErrConflict indicates a uniqueness conflict (e.g. duplicate tag name).
	// Note that a competing alias mapping is NOT an error: the registry records
	// it as a conflict-status entry for human review.
	ErrConflict = New("resource conflict")
)

// IsNotFound checks if an error is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return Is(err, ErrNotFound)
}

// IsValidationFailed checks if an error is or wraps ErrValidationFailed.
func IsValidationFailed(err error) bool {
	return Is(err, ErrValidationFailed)
}

// IsImmutableRecord checks if an error is or wraps ErrImmutableRecord.
func IsImmutableRecord(err error) bool {
	return Is(err, ErrImmutableRecord)
}

// IsUnknownTag checks if an error is or wraps ErrUnknownTag.
func IsUnknownTag(err error) bool {
	return Is(err, ErrUnknownTag)
}

// IsTagNotActive checks if an error is or wraps ErrTagNotActive.
func IsTagNotActive(err error) bool {
	return Is(err, ErrTagNotActive)
}

// IsOutOfRange checks if an error is or wraps ErrOutOfRange.
func IsOutOfRange(err error) bool {
	return Is(err, ErrOutOfRange)
}

// IsInvalidTransition checks if an error is or wraps ErrInvalidTransition.
func IsInvalidTransition(err error) bool {
	return Is(err, ErrInvalidTransition)
}

// IsConflict checks if an error is or wraps ErrConflict.
func IsConflict(err error) bool {
	return Is(err, ErrConflict)
}
