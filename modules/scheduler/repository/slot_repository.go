package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hilomatch/hilo-core/modules/scheduler/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SlotRepository implements ports.SlotRepository, adapted from the
// time-keyed dispatch rows (RemindAt -> ScheduledTime) with an added
// conditional claim update for exactly-once dispatch.
type SlotRepository struct {
	pool *pgxpool.Pool
}

// NewSlotRepository creates a new Scheduled Slot repository.
func NewSlotRepository(pool *pgxpool.Pool) *SlotRepository {
	return &SlotRepository{pool: pool}
}

func (r *SlotRepository) InsertBulk(ctx context.Context, slots []*model.ScheduledSlot) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	for _, s := range slots {
		s.ID = uuid.New().String()
		s.Status = model.SlotPending
		s.CreatedAt = now

		if _, err := tx.Exec(ctx, `
			INSERT INTO scheduled_final_matches (id, scheduled_time, status, created_at)
			VALUES ($1, $2, $3, $4)
		`, s.ID, s.ScheduledTime, s.Status, s.CreatedAt); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return model.ErrDuplicateScheduledTime
			}
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *SlotRepository) ListAll(ctx context.Context) ([]*model.ScheduledSlot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, scheduled_time, status, executed_at, matches_created, error_message, created_at
		FROM scheduled_final_matches ORDER BY scheduled_time ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSlots(rows)
}

func (r *SlotRepository) ListDue(ctx context.Context, now time.Time) ([]*model.ScheduledSlot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, scheduled_time, status, executed_at, matches_created, error_message, created_at
		FROM scheduled_final_matches
		WHERE status = 'pending' AND scheduled_time <= $1
		ORDER BY scheduled_time ASC
	`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSlots(rows)
}

func (r *SlotRepository) NextPending(ctx context.Context) (time.Time, bool, error) {
	var scheduledTime time.Time
	err := r.pool.QueryRow(ctx, `
		SELECT scheduled_time FROM scheduled_final_matches
		WHERE status = 'pending' ORDER BY scheduled_time ASC LIMIT 1
	`).Scan(&scheduledTime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	return scheduledTime, true, nil
}

// Claim performs the conditional pending->running update keyed by id.
// The RowsAffected check is what gives the scheduler
// at-most-one-execution-per-slot across concurrent workers.
func (r *SlotRepository) Claim(ctx context.Context, id string) (bool, error) {
	result, err := r.pool.Exec(ctx, `
		UPDATE scheduled_final_matches SET status = 'running' WHERE id = $1 AND status = 'pending'
	`, id)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func (r *SlotRepository) Complete(ctx context.Context, id string, matchesCreated int) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE scheduled_final_matches
		SET status = 'completed', executed_at = now(), matches_created = $2, error_message = NULL
		WHERE id = $1
	`, id, matchesCreated)
	return err
}

func (r *SlotRepository) Fail(ctx context.Context, id string, errorMessage string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE scheduled_final_matches
		SET status = 'failed', executed_at = now(), error_message = $2
		WHERE id = $1
	`, id, model.TruncateErrorMessage(errorMessage))
	return err
}

func (r *SlotRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM scheduled_final_matches WHERE id = $1 AND status = 'pending'
	`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() > 0 {
		return nil
	}

	var status model.SlotStatus
	err = r.pool.QueryRow(ctx, `SELECT status FROM scheduled_final_matches WHERE id = $1`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrSlotNotFound
		}
		return err
	}
	return model.ErrSlotNotPending
}

func scanSlots(rows pgx.Rows) ([]*model.ScheduledSlot, error) {
	var out []*model.ScheduledSlot
	for rows.Next() {
		s := &model.ScheduledSlot{}
		if err := rows.Scan(&s.ID, &s.ScheduledTime, &s.Status, &s.ExecutedAt, &s.MatchesCreated, &s.ErrorMessage, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
