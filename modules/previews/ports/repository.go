package ports

import (
	"context"

	"github.com/hilomatch/hilo-core/modules/previews/model"
)

// PreviewRepository defines the interface for preview data access.
type PreviewRepository interface {
	// Upsert atomically replaces a single user's previews row. The
	// service fans this out across the cohort with bounded concurrency so
	// no single round holds a long transaction.
	Upsert(ctx context.Context, preview *model.Preview) error
	// UpsertAll replaces every listed user's previews row one after another,
	// without the service's bounded-concurrency fan-out.
	UpsertAll(ctx context.Context, previews []*model.Preview) error
	GetByUserID(ctx context.Context, userID string) (*model.Preview, error)
	// DeleteAll removes every previews row. The Final Assigner clears
	// previews inside its own round transaction, not through this method.
	DeleteAll(ctx context.Context) error
	// DeleteByUserID clears a single user's previews. The Match Lifecycle
	// reject path clears previews inside its own transaction, not through
	// this method.
	DeleteByUserID(ctx context.Context, userID string) error
}
