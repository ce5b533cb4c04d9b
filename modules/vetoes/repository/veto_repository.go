package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hilomatch/hilo-core/modules/vetoes/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// VetoRepository implements ports.VetoRepository
type VetoRepository struct {
	pool *pgxpool.Pool
}

// NewVetoRepository creates a new veto repository
func NewVetoRepository(pool *pgxpool.Pool) *VetoRepository {
	return &VetoRepository{pool: pool}
}

// Insert is idempotent: ON CONFLICT DO NOTHING on the UNIQUE(vetoer, vetoed)
// constraint means a repeated call for the same pair is silently a no-op.
func (r *VetoRepository) Insert(ctx context.Context, veto *model.Veto) error {
	query := `
		INSERT INTO vetoes (id, vetoer_id, vetoed_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (vetoer_id, vetoed_id) DO NOTHING
	`
	veto.ID = uuid.New().String()
	veto.CreatedAt = time.Now().UTC()

	_, err := r.pool.Exec(ctx, query, veto.ID, veto.VetoerID, veto.VetoedID, veto.CreatedAt)
	return err
}

// Delete removes a single directed veto edge.
func (r *VetoRepository) Delete(ctx context.Context, vetoerID, vetoedID string) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM vetoes WHERE vetoer_id = $1 AND vetoed_id = $2
	`, vetoerID, vetoedID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrVetoNotFound
	}
	return nil
}

// ListByVetoer lists every veto cast by vetoerID.
func (r *VetoRepository) ListByVetoer(ctx context.Context, vetoerID string) ([]*model.Veto, error) {
	query := `
		SELECT id, vetoer_id, vetoed_id, created_at
		FROM vetoes WHERE vetoer_id = $1 ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, vetoerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vetoes []*model.Veto
	for rows.Next() {
		v := &model.Veto{}
		if err := rows.Scan(&v.ID, &v.VetoerID, &v.VetoedID, &v.CreatedAt); err != nil {
			return nil, err
		}
		vetoes = append(vetoes, v)
	}
	return vetoes, rows.Err()
}

// IsExcluded reports whether a veto exists in either direction between a and b.
func (r *VetoRepository) IsExcluded(ctx context.Context, a, b string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM vetoes
			WHERE (vetoer_id = $1 AND vetoed_id = $2)
			   OR (vetoer_id = $2 AND vetoed_id = $1)
		)
	`
	var excluded bool
	err := r.pool.QueryRow(ctx, query, a, b).Scan(&excluded)
	return excluded, err
}

// ListAll returns every veto row, used by the Final Assigner to build an
// in-memory exclusion set once per round.
func (r *VetoRepository) ListAll(ctx context.Context) ([]*model.Veto, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, vetoer_id, vetoed_id, created_at FROM vetoes`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vetoes []*model.Veto
	for rows.Next() {
		v := &model.Veto{}
		if err := rows.Scan(&v.ID, &v.VetoerID, &v.VetoedID, &v.CreatedAt); err != nil {
			return nil, err
		}
		vetoes = append(vetoes, v)
	}
	return vetoes, rows.Err()
}

// DeleteAll removes every veto row.
func (r *VetoRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM vetoes`)
	return err
}
