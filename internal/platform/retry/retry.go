// Package retry provides the bounded-retry policy background paths apply
// to transient storage errors (the Lifecycle Sweeper's auto-confirm pass).
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultMaxElapsed bounds how long a background retry loop keeps retrying
// before giving up and surfacing the error to its caller.
const DefaultMaxElapsed = 30 * time.Second

// Do retries fn with exponential backoff, capped at DefaultMaxElapsed, and
// stops early if ctx is cancelled. Intended for idempotent DB operations on
// background paths only; request paths surface TransientStorageError
// directly instead of retrying silently.
func Do(ctx context.Context, fn func() error) error {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = DefaultMaxElapsed
	return backoff.Retry(fn, backoff.WithContext(b, ctx))
}
