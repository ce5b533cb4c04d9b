// Package service implements the Scheduler: an operator-facing slot CRUD
// surface and the long-running dispatcher task.
package service

import (
	"context"
	"time"

	"github.com/hilomatch/hilo-core/modules/scheduler/model"
	"github.com/hilomatch/hilo-core/modules/scheduler/ports"
)

// SlotService implements the operator slot API: insert new slots (bulk),
// list, delete slot by id (only while pending).
type SlotService struct {
	repo ports.SlotRepository
	wake WakeNotifier
}

// NewSlotService wires the Scheduled Slot operator surface. wake may be nil
// in tests or single-process deployments; insertion still works, the
// dispatcher just notices the new slot on its next scheduled wake instead
// of immediately.
func NewSlotService(repo ports.SlotRepository, wake WakeNotifier) *SlotService {
	return &SlotService{repo: repo, wake: wake}
}

// InsertBulk inserts one slot per scheduledTime and best-effort notifies
// the dispatcher in case any of them is earlier than its current sleep.
func (s *SlotService) InsertBulk(ctx context.Context, scheduledTimes []time.Time) ([]*model.ScheduledSlot, error) {
	slots := make([]*model.ScheduledSlot, len(scheduledTimes))
	for i, t := range scheduledTimes {
		slots[i] = &model.ScheduledSlot{ScheduledTime: t}
	}

	if err := s.repo.InsertBulk(ctx, slots); err != nil {
		return nil, err
	}

	if s.wake != nil {
		_ = s.wake.Notify(ctx)
	}
	return slots, nil
}

// List returns every Scheduled Slot.
func (s *SlotService) List(ctx context.Context) ([]*model.ScheduledSlot, error) {
	return s.repo.ListAll(ctx)
}

// Delete removes a pending slot. Deleting a running/completed/failed slot
// is rejected with model.ErrSlotNotPending.
func (s *SlotService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
