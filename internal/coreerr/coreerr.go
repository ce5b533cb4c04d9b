// Package coreerr holds the abstract error kinds shared across modules
// (validation, state, not-found, conflict, transient storage, fatal config,
// scheduler execution). Each module still wraps its own sentinel errors
// with these via %w so errors.Is keeps working against both the domain sentinel and the kind.
package coreerr

import "errors"

var (
	// ErrValidation marks a malformed request: unknown tag id, non-leaf tag,
	// unknown trait, over-limit tag count, bad boundary value.
	ErrValidation = errors.New("validation error")

	// ErrState marks an operation not allowed for the caller's current status.
	ErrState = errors.New("state error")

	// ErrNotFound marks a missing form, user, or match.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a duplicate veto, duplicate scheduled time, or self-veto.
	ErrConflict = errors.New("conflict")

	// ErrTransientStorage marks a database-unavailable or serialization-conflict
	// condition. Background paths retry it (see internal/platform/retry);
	// request paths surface it directly.
	ErrTransientStorage = errors.New("transient storage error")

	// ErrFatalConfig marks a startup-time configuration defect (e.g. a
	// malformed tag catalog) that must terminate the process.
	ErrFatalConfig = errors.New("fatal configuration error")

	// ErrSchedulerExecution marks a Final Assigner run that failed inside a
	// scheduled slot. It is persisted on the slot row, not returned to a caller.
	ErrSchedulerExecution = errors.New("scheduler execution error")
)

// HTTPStatusFor maps a coreerr kind to its HTTP status code. Modules
// with module-specific sentinels should resolve to a coreerr kind first via errors.Is before calling this.
func HTTPStatusFor(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return 400
	case errors.Is(err, ErrState):
		return 409
	case errors.Is(err, ErrNotFound):
		return 404
	case errors.Is(err, ErrConflict):
		return 409
	default:
		return 500
	}
}
