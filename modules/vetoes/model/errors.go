package model

import (
	"errors"
	"fmt"

	"github.com/hilomatch/hilo-core/internal/coreerr"
)

var (
	// ErrSelfVeto is returned when vetoer_id == vetoed_id.
	ErrSelfVeto = fmt.Errorf("a user cannot veto themselves: %w", coreerr.ErrConflict)

	// ErrVetoerNotEligible is returned when the caller's status is not form_completed.
	ErrVetoerNotEligible = fmt.Errorf("only a form_completed user may cast a veto: %w", coreerr.ErrState)

	// ErrVetoNotFound is returned when deleting a veto edge that does not exist.
	ErrVetoNotFound = fmt.Errorf("veto not found: %w", coreerr.ErrNotFound)
)

// ErrorCode is a machine-readable error code surfaced alongside HTTP errors.
type ErrorCode string

const (
	CodeSelfVeto          ErrorCode = "SELF_VETO"
	CodeVetoerNotEligible ErrorCode = "VETOER_NOT_ELIGIBLE"
	CodeVetoNotFound      ErrorCode = "VETO_NOT_FOUND"
	CodeInternalError     ErrorCode = "INTERNAL_ERROR"
)

// GetErrorCode maps errors to error codes.
func GetErrorCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrSelfVeto):
		return CodeSelfVeto
	case errors.Is(err, ErrVetoerNotEligible):
		return CodeVetoerNotEligible
	case errors.Is(err, ErrVetoNotFound):
		return CodeVetoNotFound
	default:
		return CodeInternalError
	}
}

// GetErrorMessage returns a user-friendly error message.
func GetErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrSelfVeto):
		return "You cannot veto yourself"
	case errors.Is(err, ErrVetoerNotEligible):
		return "Your account status does not allow casting a veto right now"
	case errors.Is(err, ErrVetoNotFound):
		return "Veto not found"
	default:
		return "Internal server error"
	}
}
