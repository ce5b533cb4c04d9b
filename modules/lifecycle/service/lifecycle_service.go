// Package service implements the Match Lifecycle state machine: accept,
// reject with mutual revert, and a periodic auto-confirm sweep.
package service

import (
	"context"
	"time"

	"github.com/hilomatch/hilo-core/internal/platform/retry"
	"github.com/hilomatch/hilo-core/modules/lifecycle/ports"
	matchingmodel "github.com/hilomatch/hilo-core/modules/matching/model"
	usermodel "github.com/hilomatch/hilo-core/modules/users/model"
)

// UserStatusLookup is the narrow read contract the lifecycle needs from the
// users module to enforce the "caller must be status matched" rule. It
// returns a plain string, mirroring modules/vetoes' UserStatusLookup, so a
// single adapter over the users repository can satisfy both.
type UserStatusLookup interface {
	StatusOf(ctx context.Context, userID string) (string, error)
}

const statusMatched = string(usermodel.StatusMatched)

// LifecycleService drives the per-match accept/reject state machine.
type LifecycleService struct {
	repo          ports.LifecycleRepository
	users         UserStatusLookup
	acceptTimeout time.Duration
}

// NewLifecycleService wires the Match Lifecycle. acceptTimeout is the
// duration after which an unresolved Final Match auto-confirms.
func NewLifecycleService(repo ports.LifecycleRepository, users UserStatusLookup, acceptTimeout time.Duration) *LifecycleService {
	return &LifecycleService{repo: repo, users: users, acceptTimeout: acceptTimeout}
}

// Accept records userID's acceptance of matchID. The caller must be status
// matched.
func (s *LifecycleService) Accept(ctx context.Context, matchID, userID string) (*matchingmodel.FinalMatch, error) {
	status, err := s.users.StatusOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	if status != statusMatched {
		return nil, matchingmodel.ErrNotEligible
	}
	return s.repo.Accept(ctx, matchID, userID)
}

// Reject deletes matchID and reverts both sides to form_completed. The
// caller must be status matched.
func (s *LifecycleService) Reject(ctx context.Context, matchID, userID string) error {
	status, err := s.users.StatusOf(ctx, userID)
	if err != nil {
		return err
	}
	if status != statusMatched {
		return matchingmodel.ErrNotEligible
	}
	return s.repo.Reject(ctx, matchID, userID)
}

// AdminDelete force-reverts matchID on an admin's behalf, without the
// caller-identity check Reject enforces.
func (s *LifecycleService) AdminDelete(ctx context.Context, matchID string) error {
	return s.repo.AdminDelete(ctx, matchID)
}

// SweepAutoConfirm runs one pass of the periodic auto-confirm sweep,
// promoting every Final Match whose acceptance window has elapsed without
// mutual acceptance. This is a
// background path, so a TransientStorageError is retried with bounded
// backoff instead of surfacing immediately.
func (s *LifecycleService) SweepAutoConfirm(ctx context.Context) (int, error) {
	cutoff := time.Now().UTC().Add(-s.acceptTimeout)

	var n int
	err := retry.Do(ctx, func() error {
		var err error
		n, err = s.repo.SweepAutoConfirm(ctx, cutoff)
		return err
	})
	return n, err
}

// RunSweeperLoop runs SweepAutoConfirm on a fixed interval until ctx is
// canceled. Errors are swallowed per tick; the next tick retries.
func (s *LifecycleService) RunSweeperLoop(ctx context.Context, interval time.Duration, onError func(error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.SweepAutoConfirm(ctx); err != nil && onError != nil {
				onError(err)
			}
		}
	}
}
