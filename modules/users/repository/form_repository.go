package repository

import (
	"context"
	"errors"

	"github.com/hilomatch/hilo-core/modules/users/model"
	"github.com/hilomatch/hilo-core/modules/users/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FormRepository implements ports.FormRepository
type FormRepository struct {
	pool *pgxpool.Pool
}

// NewFormRepository creates a new form repository
func NewFormRepository(pool *pgxpool.Pool) *FormRepository {
	return &FormRepository{pool: pool}
}

// Upsert creates or replaces a user's form. A user has at most one form,
// so this is a single insert-or-update keyed on user_id.
func (r *FormRepository) Upsert(ctx context.Context, form *model.Form) error {
	query := `
		INSERT INTO forms (
			user_id, gender, familiar_tags, aspirational_tags,
			self_traits, ideal_traits, physical_boundary,
			recent_topics, self_intro, profile_photo_filename,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
		ON CONFLICT (user_id) DO UPDATE SET
			gender = EXCLUDED.gender,
			familiar_tags = EXCLUDED.familiar_tags,
			aspirational_tags = EXCLUDED.aspirational_tags,
			self_traits = EXCLUDED.self_traits,
			ideal_traits = EXCLUDED.ideal_traits,
			physical_boundary = EXCLUDED.physical_boundary,
			recent_topics = EXCLUDED.recent_topics,
			self_intro = EXCLUDED.self_intro,
			profile_photo_filename = EXCLUDED.profile_photo_filename,
			updated_at = now()
		RETURNING created_at, updated_at
	`

	return r.pool.QueryRow(ctx, query,
		form.UserID,
		form.Gender,
		form.FamiliarTags,
		form.AspirationalTags,
		form.SelfTraits,
		form.IdealTraits,
		form.PhysicalBoundary,
		form.RecentTopics,
		form.SelfIntro,
		form.ProfilePhotoFilename,
	).Scan(&form.CreatedAt, &form.UpdatedAt)
}

// GetByUserID retrieves a user's form.
func (r *FormRepository) GetByUserID(ctx context.Context, userID string) (*model.Form, error) {
	query := `
		SELECT user_id, gender, familiar_tags, aspirational_tags,
			self_traits, ideal_traits, physical_boundary,
			recent_topics, self_intro, profile_photo_filename,
			created_at, updated_at
		FROM forms
		WHERE user_id = $1
	`

	form := &model.Form{}
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&form.UserID,
		&form.Gender,
		&form.FamiliarTags,
		&form.AspirationalTags,
		&form.SelfTraits,
		&form.IdealTraits,
		&form.PhysicalBoundary,
		&form.RecentTopics,
		&form.SelfIntro,
		&form.ProfilePhotoFilename,
		&form.CreatedAt,
		&form.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrFormNotFound
		}
		return nil, err
	}

	return form, nil
}

// SnapshotByStatuses returns every form belonging to a user whose status is
// in statuses. Used by the Tag Statistics computation and the
// Preview Generator's candidate population.
func (r *FormRepository) SnapshotByStatuses(ctx context.Context, statuses []model.Status) ([]*ports.FormWithUser, error) {
	query := `
		SELECT u.id, u.status,
			f.user_id, f.gender, f.familiar_tags, f.aspirational_tags,
			f.self_traits, f.ideal_traits, f.physical_boundary,
			f.recent_topics, f.self_intro, f.profile_photo_filename,
			f.created_at, f.updated_at
		FROM forms f
		JOIN users u ON u.id = f.user_id
		WHERE u.status = ANY($1)
	`

	rows, err := r.pool.Query(ctx, query, statuses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*ports.FormWithUser
	for rows.Next() {
		fu := &ports.FormWithUser{Form: &model.Form{}}
		if err := rows.Scan(
			&fu.UserID,
			&fu.Status,
			&fu.Form.UserID,
			&fu.Form.Gender,
			&fu.Form.FamiliarTags,
			&fu.Form.AspirationalTags,
			&fu.Form.SelfTraits,
			&fu.Form.IdealTraits,
			&fu.Form.PhysicalBoundary,
			&fu.Form.RecentTopics,
			&fu.Form.SelfIntro,
			&fu.Form.ProfilePhotoFilename,
			&fu.Form.CreatedAt,
			&fu.Form.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, fu)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
