// Package model holds the Scheduled Slot, the durable timer entry the
// Scheduler dispatches, carrying an operator-facing SlotStatus state
// machine and execution bookkeeping.
package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/hilomatch/hilo-core/internal/coreerr"
)

// SlotStatus is a Scheduled Slot's lifecycle state.
type SlotStatus string

const (
	SlotPending   SlotStatus = "pending"
	SlotRunning   SlotStatus = "running"
	SlotCompleted SlotStatus = "completed"
	SlotFailed    SlotStatus = "failed"
)

// errorMessageMaxLen bounds error_message on a failed slot.
const errorMessageMaxLen = 2000

// ScheduledSlot is a durable timer entry for one Final Assigner run.
type ScheduledSlot struct {
	ID             string
	ScheduledTime  time.Time
	Status         SlotStatus
	ExecutedAt     *time.Time
	MatchesCreated *int
	ErrorMessage   *string
	CreatedAt      time.Time
}

// ScheduledSlotDTO is the serializable projection of ScheduledSlot.
type ScheduledSlotDTO struct {
	ID             string     `json:"id"`
	ScheduledTime  time.Time  `json:"scheduled_time"`
	Status         SlotStatus `json:"status"`
	ExecutedAt     *time.Time `json:"executed_at,omitempty"`
	MatchesCreated *int       `json:"matches_created,omitempty"`
	ErrorMessage   *string    `json:"error_message,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ToDTO converts ScheduledSlot to ScheduledSlotDTO.
func (s *ScheduledSlot) ToDTO() *ScheduledSlotDTO {
	return &ScheduledSlotDTO{
		ID:             s.ID,
		ScheduledTime:  s.ScheduledTime,
		Status:         s.Status,
		ExecutedAt:     s.ExecutedAt,
		MatchesCreated: s.MatchesCreated,
		ErrorMessage:   s.ErrorMessage,
		CreatedAt:      s.CreatedAt,
	}
}

// TruncateErrorMessage bounds an execution error to errorMessageMaxLen
// before it is persisted on a failed slot.
func TruncateErrorMessage(msg string) string {
	if len(msg) <= errorMessageMaxLen {
		return msg
	}
	return msg[:errorMessageMaxLen]
}

// InsertSlotsRequest is the operator bulk-insert request.
type InsertSlotsRequest struct {
	ScheduledTimes []time.Time `json:"scheduled_times" binding:"required,min=1"`
}

var (
	// ErrSlotNotFound is returned when a Scheduled Slot row does not exist.
	ErrSlotNotFound = fmt.Errorf("scheduled slot not found: %w", coreerr.ErrNotFound)

	// ErrSlotNotPending is returned when a caller tries to delete a slot
	// that is no longer pending; running, completed, and failed slots
	// cannot be deleted.
	ErrSlotNotPending = fmt.Errorf("scheduled slot is not pending: %w", coreerr.ErrState)

	// ErrDuplicateScheduledTime is returned when an inserted slot collides
	// with an existing one on the UNIQUE(scheduled_time) constraint.
	ErrDuplicateScheduledTime = fmt.Errorf("a slot already exists at that scheduled time: %w", coreerr.ErrConflict)
)

// ErrorCode is a machine-readable error code surfaced alongside HTTP errors.
type ErrorCode string

const (
	CodeSlotNotFound       ErrorCode = "SLOT_NOT_FOUND"
	CodeSlotNotPending     ErrorCode = "SLOT_NOT_PENDING"
	CodeDuplicateScheduled ErrorCode = "DUPLICATE_SCHEDULED_TIME"
	CodeInternalError      ErrorCode = "INTERNAL_ERROR"
)

// GetErrorCode maps errors to error codes.
func GetErrorCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrSlotNotFound):
		return CodeSlotNotFound
	case errors.Is(err, ErrSlotNotPending):
		return CodeSlotNotPending
	case errors.Is(err, ErrDuplicateScheduledTime):
		return CodeDuplicateScheduled
	default:
		return CodeInternalError
	}
}
