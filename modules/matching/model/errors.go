package model

import (
	"errors"
	"fmt"

	"github.com/hilomatch/hilo-core/internal/coreerr"
)

var (
	// ErrMatchNotFound is returned when a Final Match row does not exist.
	ErrMatchNotFound = fmt.Errorf("final match not found: %w", coreerr.ErrNotFound)

	// ErrNotEligible is returned when a caller's status does not permit the
	// requested operation (e.g. accept/reject by a user who is not `matched`).
	ErrNotEligible = fmt.Errorf("user status does not allow this operation: %w", coreerr.ErrState)

	// ErrAssignmentFailed marks a Final Assigner run that failed inside its
	// transaction. The transaction is rolled back in full before this is
	// returned.
	ErrAssignmentFailed = fmt.Errorf("final assignment run failed: %w", coreerr.ErrSchedulerExecution)
)

// ErrorCode is a machine-readable error code surfaced alongside HTTP errors.
type ErrorCode string

const (
	CodeMatchNotFound ErrorCode = "MATCH_NOT_FOUND"
	CodeNotEligible   ErrorCode = "NOT_ELIGIBLE"
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// GetErrorCode maps errors to error codes.
func GetErrorCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrMatchNotFound):
		return CodeMatchNotFound
	case errors.Is(err, ErrNotEligible):
		return CodeNotEligible
	default:
		return CodeInternalError
	}
}

// GetErrorMessage returns a user-friendly error message.
func GetErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrMatchNotFound):
		return "Match not found"
	case errors.Is(err, ErrNotEligible):
		return "Your account status does not allow this operation right now"
	default:
		return "Internal server error"
	}
}
