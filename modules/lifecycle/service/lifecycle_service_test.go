package service

import (
	"context"
	"testing"
	"time"

	matchingmodel "github.com/hilomatch/hilo-core/modules/matching/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStatusLookup struct {
	status string
	err    error
}

func (f *fakeStatusLookup) StatusOf(ctx context.Context, userID string) (string, error) {
	return f.status, f.err
}

type fakeLifecycleRepo struct {
	acceptFunc      func(ctx context.Context, matchID, userID string) (*matchingmodel.FinalMatch, error)
	rejectFunc      func(ctx context.Context, matchID, userID string) error
	adminDeleteFunc func(ctx context.Context, matchID string) error
	sweepFunc       func(ctx context.Context, cutoff time.Time) (int, error)
	lastSweepCutoff time.Time
}

func (f *fakeLifecycleRepo) Accept(ctx context.Context, matchID, userID string) (*matchingmodel.FinalMatch, error) {
	return f.acceptFunc(ctx, matchID, userID)
}
func (f *fakeLifecycleRepo) Reject(ctx context.Context, matchID, userID string) error {
	return f.rejectFunc(ctx, matchID, userID)
}
func (f *fakeLifecycleRepo) AdminDelete(ctx context.Context, matchID string) error {
	return f.adminDeleteFunc(ctx, matchID)
}
func (f *fakeLifecycleRepo) SweepAutoConfirm(ctx context.Context, cutoff time.Time) (int, error) {
	f.lastSweepCutoff = cutoff
	return f.sweepFunc(ctx, cutoff)
}

func TestLifecycleService_Accept_RejectsIneligibleCaller(t *testing.T) {
	repo := &fakeLifecycleRepo{}
	svc := NewLifecycleService(repo, &fakeStatusLookup{status: "form_completed"}, 24*time.Hour)

	_, err := svc.Accept(context.Background(), "match-1", "u1")

	require.ErrorIs(t, err, matchingmodel.ErrNotEligible)
}

func TestLifecycleService_Accept_DelegatesWhenEligible(t *testing.T) {
	want := &matchingmodel.FinalMatch{ID: "match-1", AcceptanceA: matchingmodel.AcceptanceAccepted}
	repo := &fakeLifecycleRepo{
		acceptFunc: func(ctx context.Context, matchID, userID string) (*matchingmodel.FinalMatch, error) {
			return want, nil
		},
	}
	svc := NewLifecycleService(repo, &fakeStatusLookup{status: "matched"}, 24*time.Hour)

	got, err := svc.Accept(context.Background(), "match-1", "u1")

	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestLifecycleService_Reject_RejectsIneligibleCaller(t *testing.T) {
	repo := &fakeLifecycleRepo{}
	svc := NewLifecycleService(repo, &fakeStatusLookup{status: "confirmed"}, 24*time.Hour)

	err := svc.Reject(context.Background(), "match-1", "u1")

	require.ErrorIs(t, err, matchingmodel.ErrNotEligible)
}

func TestLifecycleService_Reject_DelegatesWhenEligible(t *testing.T) {
	called := false
	repo := &fakeLifecycleRepo{
		rejectFunc: func(ctx context.Context, matchID, userID string) error {
			called = true
			return nil
		},
	}
	svc := NewLifecycleService(repo, &fakeStatusLookup{status: "matched"}, 24*time.Hour)

	require.NoError(t, svc.Reject(context.Background(), "match-1", "u1"))
	assert.True(t, called)
}

func TestLifecycleService_AdminDelete_SkipsCallerEligibilityCheck(t *testing.T) {
	called := false
	repo := &fakeLifecycleRepo{
		adminDeleteFunc: func(ctx context.Context, matchID string) error {
			called = true
			return nil
		},
	}
	// No status lookup is even consulted: AdminDelete acts on neither
	// party's behalf, so there is no caller to check eligibility for.
	svc := NewLifecycleService(repo, &fakeStatusLookup{err: assert.AnError}, 24*time.Hour)

	require.NoError(t, svc.AdminDelete(context.Background(), "match-1"))
	assert.True(t, called)
}

func TestLifecycleService_SweepAutoConfirm_UsesAcceptTimeoutCutoff(t *testing.T) {
	repo := &fakeLifecycleRepo{
		sweepFunc: func(ctx context.Context, cutoff time.Time) (int, error) {
			return 3, nil
		},
	}
	timeout := 36 * time.Hour
	svc := NewLifecycleService(repo, &fakeStatusLookup{}, timeout)

	before := time.Now().UTC()
	count, err := svc.SweepAutoConfirm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	wantCutoff := before.Add(-timeout)
	assert.WithinDuration(t, wantCutoff, repo.lastSweepCutoff, 2*time.Second)
}
