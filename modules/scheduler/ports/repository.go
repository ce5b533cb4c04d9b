package ports

import (
	"context"
	"time"

	"github.com/hilomatch/hilo-core/modules/scheduler/model"
)

// SlotRepository implements the Scheduled Slot's storage and claim
// semantics.
type SlotRepository interface {
	// InsertBulk inserts every slot in one transaction.
	InsertBulk(ctx context.Context, slots []*model.ScheduledSlot) error

	// ListAll returns every slot, ordered by scheduled_time ascending.
	ListAll(ctx context.Context) ([]*model.ScheduledSlot, error)

	// ListDue returns every pending slot with scheduled_time <= now,
	// ordered by scheduled_time ascending, used both for startup
	// drift-catchup and the dispatcher's normal wake.
	ListDue(ctx context.Context, now time.Time) ([]*model.ScheduledSlot, error)

	// NextPending returns the earliest pending slot's scheduled_time, used
	// to compute how long the dispatcher should sleep. Returns ok=false if
	// no pending slot exists.
	NextPending(ctx context.Context) (scheduledTime time.Time, ok bool, err error)

	// Claim performs the conditional `pending -> running` update keyed by
	// id. It returns ok=false, without error, if the update affected
	// zero rows because another worker already claimed it.
	Claim(ctx context.Context, id string) (ok bool, err error)

	// Complete records a successful execution.
	Complete(ctx context.Context, id string, matchesCreated int) error

	// Fail records a failed execution with a bounded error message.
	Fail(ctx context.Context, id string, errorMessage string) error

	// Delete removes a slot, but only while it is still pending. It
	// returns model.ErrSlotNotPending otherwise.
	Delete(ctx context.Context, id string) error
}
