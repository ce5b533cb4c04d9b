package ports

import (
	"context"
	"time"

	matchingmodel "github.com/hilomatch/hilo-core/modules/matching/model"
)

// LifecycleRepository implements the Match Lifecycle's three state
// transitions, each as its own self-contained transaction:
// accept, reject (with mutual revert), and the periodic auto-confirm sweep.
type LifecycleRepository interface {
	// Accept records userID's side of matchID as accepted. If the other
	// side is already accepted, both users' status becomes confirmed in
	// the same transaction.
	Accept(ctx context.Context, matchID, userID string) (*matchingmodel.FinalMatch, error)

	// Reject deletes the Final Match and reverts both users to
	// form_completed, clearing their preview rows, all in one transaction.
	Reject(ctx context.Context, matchID, userID string) error

	// AdminDelete runs the same delete-and-revert transaction as Reject,
	// without requiring the caller to be one of the match's two users.
	AdminDelete(ctx context.Context, matchID string) error

	// SweepAutoConfirm promotes every Final Match created at or before
	// cutoff that is not already confirmed (both sides accepted) to
	// confirmed, one transaction per match. It returns how many rows were
	// processed; re-running it with the same cutoff after a partial
	// failure is safe since already-confirmed rows are excluded.
	SweepAutoConfirm(ctx context.Context, cutoff time.Time) (int, error)
}
