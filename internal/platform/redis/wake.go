package redis

import "context"

// WakeNotifier implements scheduler/service.WakeNotifier over PublishWake.
type WakeNotifier struct {
	client *Client
}

// NewWakeNotifier wraps client as a scheduler/service.WakeNotifier.
func NewWakeNotifier(client *Client) *WakeNotifier {
	return &WakeNotifier{client: client}
}

func (n *WakeNotifier) Notify(ctx context.Context) error {
	return n.client.PublishWake(ctx)
}

// WakeSubscriber implements scheduler/service.WakeSubscriber by relaying
// hilo:scheduler:wake pub/sub messages onto a buffered Go channel. One
// subscriber is started per dispatcher process; it is released when the ctx
// passed to NewWakeSubscriber is canceled.
type WakeSubscriber struct {
	ch chan struct{}
}

// NewWakeSubscriber subscribes to WakeChannel and starts a goroutine
// relaying each message as a non-blocking send on the returned channel.
// The relay goroutine exits when ctx is canceled.
func NewWakeSubscriber(ctx context.Context, client *Client) *WakeSubscriber {
	s := &WakeSubscriber{ch: make(chan struct{}, 1)}

	pubsub := client.Subscribe(ctx, WakeChannel)
	go func() {
		defer pubsub.Close()
		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case s.ch <- struct{}{}:
				default:
				}
			}
		}
	}()

	return s
}

func (s *WakeSubscriber) Wake() <-chan struct{} { return s.ch }
