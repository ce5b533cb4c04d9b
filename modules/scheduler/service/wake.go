package service

import "context"

// WakeSubscriber is the narrow read contract the dispatcher needs from the
// cross-process wake channel: a signal that fires whenever
// an admin inserts a slot earlier than the one the dispatcher is currently
// sleeping toward.
type WakeSubscriber interface {
	Wake() <-chan struct{}
}

// WakeNotifier is the narrow write contract the admin-facing slot service
// needs: best-effort notification that a new slot was inserted.
type WakeNotifier interface {
	Notify(ctx context.Context) error
}
