package ports

import (
	"context"

	"github.com/hilomatch/hilo-core/modules/users/model"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*model.User, error)
	UpdateStatus(ctx context.Context, userID string, status model.Status) error
}

// FormRepository defines the interface for form data access. Snapshot is the
// read path the Tag Statistics, Preview Generator, and Final Assigner all
// build on.
type FormRepository interface {
	Upsert(ctx context.Context, form *model.Form) error
	GetByUserID(ctx context.Context, userID string) (*model.Form, error)
	// SnapshotByStatuses returns every form belonging to a user whose status
	// is in statuses, used to build the population for Tag Statistics and
	// the Preview Generator's broader set, which also counts matched and
	// confirmed users toward Tag Statistics.
	SnapshotByStatuses(ctx context.Context, statuses []model.Status) ([]*FormWithUser, error)
}

// FormWithUser pairs a Form with the minimal user fields callers need
// (status and id) without requiring a second round trip per form.
type FormWithUser struct {
	UserID string
	Status model.Status
	Form   *model.Form
}
