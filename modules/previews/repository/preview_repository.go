package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hilomatch/hilo-core/modules/previews/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PreviewRepository implements ports.PreviewRepository
type PreviewRepository struct {
	pool *pgxpool.Pool
}

// NewPreviewRepository creates a new preview repository
func NewPreviewRepository(pool *pgxpool.Pool) *PreviewRepository {
	return &PreviewRepository{pool: pool}
}

// Upsert atomically replaces a single user's previews row. Candidate ids
// and their scores travel as parallel arrays, scanned the same way
// forms.familiar_tags scans into []string.
func (r *PreviewRepository) Upsert(ctx context.Context, preview *model.Preview) error {
	query := `
		INSERT INTO match_previews (id, user_id, candidate_ids, candidate_scores, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (user_id) DO UPDATE SET
			candidate_ids = EXCLUDED.candidate_ids,
			candidate_scores = EXCLUDED.candidate_scores,
			updated_at = now()
		RETURNING updated_at
	`
	ids, scores := splitCandidates(preview.Candidates)
	id := uuid.New().String()
	return r.pool.QueryRow(ctx, query, id, preview.UserID, ids, scores).Scan(&preview.UpdatedAt)
}

// UpsertAll replaces every listed user's previews row. Each row is written
// as its own statement so the generator never holds one long transaction
// across the whole cohort, blocking other read traffic. The bounded fan-out
// concurrency itself lives in the service layer, which calls Upsert
// directly.
func (r *PreviewRepository) UpsertAll(ctx context.Context, previews []*model.Preview) error {
	for _, p := range previews {
		if err := r.Upsert(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// GetByUserID retrieves a user's current preview list. A user with no row
// yet (never scored, or cleared by a reject) gets an empty preview, not an
// error.
func (r *PreviewRepository) GetByUserID(ctx context.Context, userID string) (*model.Preview, error) {
	query := `SELECT user_id, candidate_ids, candidate_scores, updated_at FROM match_previews WHERE user_id = $1`

	var ids []string
	var scores []float64
	p := &model.Preview{}
	err := r.pool.QueryRow(ctx, query, userID).Scan(&p.UserID, &ids, &scores, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return &model.Preview{UserID: userID}, nil
		}
		return nil, err
	}
	p.Candidates = joinCandidates(ids, scores)
	return p, nil
}

// DeleteAll removes every previews row.
func (r *PreviewRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM match_previews`)
	return err
}

// DeleteByUserID clears a single user's previews row.
func (r *PreviewRepository) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM match_previews WHERE user_id = $1`, userID)
	return err
}

func splitCandidates(candidates []model.Candidate) ([]string, []float64) {
	ids := make([]string, len(candidates))
	scores := make([]float64, len(candidates))
	for i, c := range candidates {
		ids[i] = c.UserID
		scores[i] = c.Score
	}
	return ids, scores
}

func joinCandidates(ids []string, scores []float64) []model.Candidate {
	out := make([]model.Candidate, len(ids))
	for i, id := range ids {
		out[i] = model.Candidate{UserID: id, Score: scores[i]}
	}
	return out
}
