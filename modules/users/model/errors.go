package model

import (
	"errors"
	"fmt"

	"github.com/hilomatch/hilo-core/internal/coreerr"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = fmt.Errorf("user not found: %w", coreerr.ErrNotFound)

	// ErrFormNotFound is returned when a form is not found.
	ErrFormNotFound = fmt.Errorf("form not found: %w", coreerr.ErrNotFound)

	// ErrUnknownTag is returned when a tag id does not resolve to a catalog leaf.
	ErrUnknownTag = fmt.Errorf("tag id does not resolve to a catalog leaf: %w", coreerr.ErrValidation)

	// ErrUnknownTrait is returned when a trait id is not a known trait.
	ErrUnknownTrait = fmt.Errorf("unknown trait id: %w", coreerr.ErrValidation)

	// ErrTagSetOverlap is returned when familiar_tags and aspirational_tags share a tag.
	ErrTagSetOverlap = fmt.Errorf("familiar_tags and aspirational_tags must be disjoint: %w", coreerr.ErrValidation)

	// ErrTooManyTags is returned when combined tag count exceeds TOTAL_TAGS.
	ErrTooManyTags = fmt.Errorf("combined tag count exceeds the configured limit: %w", coreerr.ErrValidation)

	// ErrInvalidBoundary is returned when physical_boundary is outside 1..4.
	ErrInvalidBoundary = fmt.Errorf("physical_boundary must be between 1 and 4: %w", coreerr.ErrValidation)

	// ErrFormNotEligible is returned when submitting a form from a status
	// other than {verified, form_completed}.
	ErrFormNotEligible = fmt.Errorf("user status does not allow form submission: %w", coreerr.ErrState)
)

// ErrorCode is a machine-readable error code surfaced alongside HTTP errors.
type ErrorCode string

const (
	CodeUserNotFound    ErrorCode = "USER_NOT_FOUND"
	CodeFormNotFound    ErrorCode = "FORM_NOT_FOUND"
	CodeUnknownTag      ErrorCode = "UNKNOWN_TAG"
	CodeUnknownTrait    ErrorCode = "UNKNOWN_TRAIT"
	CodeTagSetOverlap   ErrorCode = "TAG_SET_OVERLAP"
	CodeTooManyTags     ErrorCode = "TOO_MANY_TAGS"
	CodeInvalidBoundary ErrorCode = "INVALID_BOUNDARY"
	CodeFormNotEligible ErrorCode = "FORM_NOT_ELIGIBLE"
	CodeInternalError   ErrorCode = "INTERNAL_ERROR"
)

// GetErrorCode maps errors to error codes.
func GetErrorCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return CodeUserNotFound
	case errors.Is(err, ErrFormNotFound):
		return CodeFormNotFound
	case errors.Is(err, ErrUnknownTag):
		return CodeUnknownTag
	case errors.Is(err, ErrUnknownTrait):
		return CodeUnknownTrait
	case errors.Is(err, ErrTagSetOverlap):
		return CodeTagSetOverlap
	case errors.Is(err, ErrTooManyTags):
		return CodeTooManyTags
	case errors.Is(err, ErrInvalidBoundary):
		return CodeInvalidBoundary
	case errors.Is(err, ErrFormNotEligible):
		return CodeFormNotEligible
	default:
		return CodeInternalError
	}
}

// GetErrorMessage returns a user-friendly error message.
func GetErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return "User not found"
	case errors.Is(err, ErrFormNotFound):
		return "Form not found"
	case errors.Is(err, ErrUnknownTag):
		return "One or more tag ids are not a leaf tag in the catalog"
	case errors.Is(err, ErrUnknownTrait):
		return "One or more trait ids are unknown"
	case errors.Is(err, ErrTagSetOverlap):
		return "A tag cannot be both familiar and aspirational"
	case errors.Is(err, ErrTooManyTags):
		return "Too many tags selected"
	case errors.Is(err, ErrInvalidBoundary):
		return "Physical boundary must be between 1 and 4"
	case errors.Is(err, ErrFormNotEligible):
		return "Your account status does not allow submitting a form right now"
	default:
		return "Internal server error"
	}
}
