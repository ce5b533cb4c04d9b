package ports

import (
	"context"

	"github.com/hilomatch/hilo-core/modules/vetoes/model"
)

// VetoRepository defines the interface for veto data access.
type VetoRepository interface {
	// Insert is idempotent under the UNIQUE(vetoer_id, vetoed_id)
	// constraint: re-inserting the same pair is a no-op, not a Conflict.
	Insert(ctx context.Context, veto *model.Veto) error
	// Delete removes a single directed veto edge. It returns
	// model.ErrVetoNotFound when no such edge exists.
	Delete(ctx context.Context, vetoerID, vetoedID string) error
	ListByVetoer(ctx context.Context, vetoerID string) ([]*model.Veto, error)
	// IsExcluded reports whether {a,b} is excluded by a veto in either
	// direction, with one query per pair. The Preview Generator and the
	// Final Assigner load ListAll instead.
	IsExcluded(ctx context.Context, a, b string) (bool, error)
	// ListAll returns every veto row. The Final Assigner uses this to build
	// an in-memory exclusion set once per round instead of one query per
	// candidate pair.
	ListAll(ctx context.Context) ([]*model.Veto, error)
	// DeleteAll removes every veto. The Final Assigner clears vetoes inside
	// its own round transaction, not through this method.
	DeleteAll(ctx context.Context) error
}
