package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hilomatch/hilo-core/modules/matching/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MatchRepository implements ports.RoundRepository and ports.MatchRepository.
type MatchRepository struct {
	pool *pgxpool.Pool
}

// NewMatchRepository creates a new Final Match repository.
func NewMatchRepository(pool *pgxpool.Pool) *MatchRepository {
	return &MatchRepository{pool: pool}
}

// ExecuteRound persists an entire Final Assigner round in one
// transaction: every emitted pair is inserted, both endpoints
// promoted to `matched`, and the previous round's previews and vetoes are
// cleared. Any failure rolls everything back and no partial set of matches
// is left behind.
func (r *MatchRepository) ExecuteRound(ctx context.Context, matches []*model.FinalMatch) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	for _, m := range matches {
		a, b := model.Canonicalize(m.UserAID, m.UserBID)
		m.ID = uuid.New().String()
		m.UserAID, m.UserBID = a, b
		m.AcceptanceA, m.AcceptanceB = model.AcceptancePending, model.AcceptancePending
		m.CreatedAt = now

		_, err = tx.Exec(ctx, `
			INSERT INTO final_matches (id, user_a_id, user_b_id, score, acceptance_a, acceptance_b, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, m.ID, m.UserAID, m.UserBID, m.Score, m.AcceptanceA, m.AcceptanceB, m.CreatedAt)
		if err != nil {
			return 0, err
		}

		if _, err = tx.Exec(ctx, `UPDATE users SET status = 'matched', updated_at = now() WHERE id IN ($1, $2)`, m.UserAID, m.UserBID); err != nil {
			return 0, err
		}
	}

	if _, err = tx.Exec(ctx, `DELETE FROM match_previews`); err != nil {
		return 0, err
	}
	if _, err = tx.Exec(ctx, `DELETE FROM vetoes`); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return len(matches), nil
}

// GetByID retrieves a Final Match by id.
func (r *MatchRepository) GetByID(ctx context.Context, id string) (*model.FinalMatch, error) {
	query := `
		SELECT id, user_a_id, user_b_id, score, acceptance_a, acceptance_b, created_at
		FROM final_matches WHERE id = $1
	`
	m := &model.FinalMatch{}
	err := r.pool.QueryRow(ctx, query, id).Scan(&m.ID, &m.UserAID, &m.UserBID, &m.Score, &m.AcceptanceA, &m.AcceptanceB, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrMatchNotFound
		}
		return nil, err
	}
	return m, nil
}

// GetByUserID retrieves the Final Match a user currently belongs to, if any.
func (r *MatchRepository) GetByUserID(ctx context.Context, userID string) (*model.FinalMatch, error) {
	query := `
		SELECT id, user_a_id, user_b_id, score, acceptance_a, acceptance_b, created_at
		FROM final_matches WHERE user_a_id = $1 OR user_b_id = $1
	`
	m := &model.FinalMatch{}
	err := r.pool.QueryRow(ctx, query, userID).Scan(&m.ID, &m.UserAID, &m.UserBID, &m.Score, &m.AcceptanceA, &m.AcceptanceB, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrMatchNotFound
		}
		return nil, err
	}
	return m, nil
}

// ListAll returns every Final Match row.
func (r *MatchRepository) ListAll(ctx context.Context) ([]*model.FinalMatch, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_a_id, user_b_id, score, acceptance_a, acceptance_b, created_at
		FROM final_matches ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.FinalMatch
	for rows.Next() {
		m := &model.FinalMatch{}
		if err := rows.Scan(&m.ID, &m.UserAID, &m.UserBID, &m.Score, &m.AcceptanceA, &m.AcceptanceB, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
