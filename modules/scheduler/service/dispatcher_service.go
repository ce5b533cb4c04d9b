package service

import (
	"context"
	"fmt"
	"time"

	"github.com/puzpuzpuz/xsync/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hilomatch/hilo-core/internal/platform/logger"
	"github.com/hilomatch/hilo-core/modules/scheduler/model"
	"github.com/hilomatch/hilo-core/modules/scheduler/ports"
)

// ErrorReporter captures a SchedulerExecutionError to an external crash
// reporter. Satisfied by a thin wrapper over sentry.CaptureException.
type ErrorReporter interface {
	CaptureException(err error)
}

// RoundRunner is the narrow contract the dispatcher needs from the Final
// Assigner.
type RoundRunner interface {
	RunRound(ctx context.Context) (int, error)
}

// PreviewRefresher is the narrow contract the dispatcher needs from the
// Preview Generator, invoked ahead of the assigner so the final run works
// from a fresh Tag Statistics snapshot.
type PreviewRefresher interface {
	Generate(ctx context.Context) error
}

// idlePoll bounds how long the dispatcher ever sleeps when no slot is
// pending at all, so a slot inserted without a wake notification (e.g. the
// admin's redis publish failed) is still picked up eventually.
const idlePoll = time.Hour

// DispatcherService is the Scheduler's long-running task: it sleeps until
// the next scheduled_time and executes the slot on wake.
type DispatcherService struct {
	slots    ports.SlotRepository
	assigner RoundRunner
	previews PreviewRefresher
	wake     WakeSubscriber
	log      *logger.Logger
	inFlight *xsync.Map[string, struct{}]
	sentry   ErrorReporter
}

// NewDispatcherService wires the Scheduler dispatcher. previews may be nil
// to skip the optional Tag Statistics refresh step.
func NewDispatcherService(slots ports.SlotRepository, assigner RoundRunner, previews PreviewRefresher, wake WakeSubscriber, log *logger.Logger) *DispatcherService {
	return &DispatcherService{
		slots:    slots,
		assigner: assigner,
		previews: previews,
		wake:     wake,
		log:      log.WithAction("scheduler.dispatch"),
		inFlight: xsync.NewMap[string, struct{}](),
	}
}

// WithErrorReporter attaches an ErrorReporter used to capture
// SchedulerExecutionError to an external crash reporter in addition to the
// slot row. Returns d for chaining at construction time.
func (d *DispatcherService) WithErrorReporter(r ErrorReporter) *DispatcherService {
	d.sentry = r
	return d
}

// Run catches up on any drift from downtime, then loops forever sleeping
// until the next pending slot's time (or an early wake signal), dispatching
// whatever is due, until ctx is canceled.
func (d *DispatcherService) Run(ctx context.Context) error {
	if err := d.catchUpDrift(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		next, ok, err := d.slots.NextPending(ctx)
		if err != nil {
			d.log.Error("failed to read next pending slot", zap.Error(err))
			if !d.sleep(ctx, idlePoll) {
				return nil
			}
			continue
		}

		if !ok {
			if !d.sleep(ctx, idlePoll) {
				return nil
			}
			continue
		}

		if wait := time.Until(next); wait > 0 {
			if !d.sleep(ctx, wait) {
				return nil
			}
			continue
		}

		if err := d.dispatchDue(ctx); err != nil {
			d.log.Error("dispatch failed", zap.Error(err))
		}
	}
}

// sleep waits for the timer, an early wake signal, or ctx cancellation.
// Returns false only on cancellation.
func (d *DispatcherService) sleep(ctx context.Context, dur time.Duration) bool {
	timer := time.NewTimer(dur)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	case <-d.wake.Wake():
		return true
	}
}

// catchUpDrift executes every slot already due at startup, in ascending
// scheduled_time order. errgroup.SetLimit(1) keeps execution strictly
// sequential while still giving the loop cancellation-aware fan-out
// semantics.
func (d *DispatcherService) catchUpDrift(ctx context.Context) error {
	due, err := d.slots.ListDue(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	if len(due) == 0 {
		return nil
	}
	d.log.Info("replaying drifted scheduled slots", zap.Int("count", len(due)))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(1)
	for _, s := range due {
		s := s
		g.Go(func() error { return d.executeSlot(gctx, s) })
	}
	return g.Wait()
}

func (d *DispatcherService) dispatchDue(ctx context.Context) error {
	due, err := d.slots.ListDue(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	for _, s := range due {
		if err := d.executeSlot(ctx, s); err != nil {
			d.log.WithSlotID(s.ID).Error("slot execution failed", zap.Error(err))
		}
	}
	return nil
}

// executeSlot runs the claim/execute/finalize protocol for a single slot.
// The in-flight set is a process-local guard against the same slot being
// picked up twice by this process (e.g. the drift catchup and the normal
// wake loop racing); cross-process exclusivity comes from the conditional
// Claim update.
func (d *DispatcherService) executeSlot(ctx context.Context, s *model.ScheduledSlot) error {
	if _, running := d.inFlight.LoadOrStore(s.ID, struct{}{}); running {
		return nil
	}
	defer d.inFlight.Delete(s.ID)

	claimed, err := d.slots.Claim(ctx, s.ID)
	if err != nil {
		return err
	}
	if !claimed {
		return nil
	}

	if d.previews != nil {
		if err := d.previews.Generate(ctx); err != nil {
			d.reportExecutionError(s.ID, err)
			return d.slots.Fail(ctx, s.ID, err.Error())
		}
	}

	count, err := d.assigner.RunRound(ctx)
	if err != nil {
		d.reportExecutionError(s.ID, err)
		return d.slots.Fail(ctx, s.ID, err.Error())
	}

	return d.slots.Complete(ctx, s.ID, count)
}

// reportExecutionError captures a SchedulerExecutionError to Sentry, if
// configured, in addition to the slot row the caller persists it to. This
// is a background path with no request to surface the error to.
func (d *DispatcherService) reportExecutionError(slotID string, err error) {
	if d.sentry == nil {
		return
	}
	d.sentry.CaptureException(fmt.Errorf("scheduled slot %s: %w", slotID, err))
}
