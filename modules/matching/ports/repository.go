package ports

import (
	"context"

	"github.com/hilomatch/hilo-core/modules/matching/model"
)

// RoundRepository executes the Final Assigner's entire persistence step
// as one transaction: inserting every emitted match, promoting both endpoints to `matched`, and clearing the previous
// round's previews and vetoes. Any error rolls the whole round back; no
// partial match persistence.
type RoundRepository interface {
	ExecuteRound(ctx context.Context, matches []*model.FinalMatch) (int, error)
}

// MatchRepository is the narrow read surface admin operations and the Match
// Lifecycle need against individual Final Match rows. The delete-and-revert
// operation itself (the admin delete that reverts both parties) lives on
// modules/lifecycle/ports.LifecycleRepository, which already owns the revert-both-sides transaction Reject uses.
type MatchRepository interface {
	GetByID(ctx context.Context, id string) (*model.FinalMatch, error)
	GetByUserID(ctx context.Context, userID string) (*model.FinalMatch, error)
	ListAll(ctx context.Context) ([]*model.FinalMatch, error)
}
