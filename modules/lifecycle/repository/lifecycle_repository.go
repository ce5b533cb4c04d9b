package repository

import (
	"context"
	"errors"
	"time"

	matchingmodel "github.com/hilomatch/hilo-core/modules/matching/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LifecycleRepository implements ports.LifecycleRepository directly against
// the final_matches, users, and match_previews tables, following the same
// self-contained-transaction pattern as modules/matching/repository: every
// transition is one round trip, all-or-nothing.
type LifecycleRepository struct {
	pool *pgxpool.Pool
}

// NewLifecycleRepository creates a new Match Lifecycle repository.
func NewLifecycleRepository(pool *pgxpool.Pool) *LifecycleRepository {
	return &LifecycleRepository{pool: pool}
}

// Accept implements ports.LifecycleRepository.Accept: the caller's side
// flips to accepted, and if the other side already accepted, both users'
// status becomes confirmed.
func (r *LifecycleRepository) Accept(ctx context.Context, matchID, userID string) (*matchingmodel.FinalMatch, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	m := &matchingmodel.FinalMatch{}
	err = tx.QueryRow(ctx, `
		SELECT id, user_a_id, user_b_id, score, acceptance_a, acceptance_b, created_at
		FROM final_matches WHERE id = $1 FOR UPDATE
	`, matchID).Scan(&m.ID, &m.UserAID, &m.UserBID, &m.Score, &m.AcceptanceA, &m.AcceptanceB, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, matchingmodel.ErrMatchNotFound
		}
		return nil, err
	}

	isSideA, ok := m.SideOf(userID)
	if !ok {
		return nil, matchingmodel.ErrNotEligible
	}
	if isSideA {
		m.AcceptanceA = matchingmodel.AcceptanceAccepted
	} else {
		m.AcceptanceB = matchingmodel.AcceptanceAccepted
	}

	if _, err := tx.Exec(ctx, `
		UPDATE final_matches SET acceptance_a = $1, acceptance_b = $2 WHERE id = $3
	`, m.AcceptanceA, m.AcceptanceB, m.ID); err != nil {
		return nil, err
	}

	if m.BothAccepted() {
		if _, err := tx.Exec(ctx, `
			UPDATE users SET status = 'confirmed', updated_at = now() WHERE id IN ($1, $2)
		`, m.UserAID, m.UserBID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// Reject implements ports.LifecycleRepository.Reject: the Final Match is
// deleted, both users' status reverts to form_completed, and their
// previews are cleared.
func (r *LifecycleRepository) Reject(ctx context.Context, matchID, userID string) error {
	return r.deleteAndRevert(ctx, matchID, func(userAID, userBID string) error {
		if userID != userAID && userID != userBID {
			return matchingmodel.ErrNotEligible
		}
		return nil
	})
}

// AdminDelete implements ports.LifecycleRepository.AdminDelete: the same
// delete-and-revert transaction as Reject, but on the admin's behalf rather
// than one of the match's two users.
func (r *LifecycleRepository) AdminDelete(ctx context.Context, matchID string) error {
	return r.deleteAndRevert(ctx, matchID, nil)
}

// deleteAndRevert deletes a Final Match, reverts both endpoints to
// form_completed, and clears their previews, all in one transaction. If
// check is non-nil, it is given both user ids (with the match row locked)
// and may veto the operation before any mutation runs; Reject uses it to
// enforce caller eligibility, AdminDelete passes nil to skip it.
func (r *LifecycleRepository) deleteAndRevert(ctx context.Context, matchID string, check func(userAID, userBID string) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var userAID, userBID string
	err = tx.QueryRow(ctx, `
		SELECT user_a_id, user_b_id FROM final_matches WHERE id = $1 FOR UPDATE
	`, matchID).Scan(&userAID, &userBID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return matchingmodel.ErrMatchNotFound
		}
		return err
	}
	if check != nil {
		if err := check(userAID, userBID); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM final_matches WHERE id = $1`, matchID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
		UPDATE users SET status = 'form_completed', updated_at = now() WHERE id IN ($1, $2)
	`, userAID, userBID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM match_previews WHERE user_id IN ($1, $2)`, userAID, userBID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// SweepAutoConfirm implements ports.LifecycleRepository.SweepAutoConfirm:
// once the acceptance window after Final Match creation elapses, any match
// not rejected and not yet mutually accepted is promoted to confirmed on
// both sides. Reject already deletes its row, so any remaining row past
// cutoff that isn't
// already fully accepted is a candidate; each is processed in its own
// transaction so one failure doesn't block the rest of the sweep.
func (r *LifecycleRepository) SweepAutoConfirm(ctx context.Context, cutoff time.Time) (int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id FROM final_matches
		WHERE created_at <= $1 AND NOT (acceptance_a = 'accepted' AND acceptance_b = 'accepted')
	`, cutoff)
	if err != nil {
		return 0, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	processed := 0
	for _, id := range ids {
		if err := r.confirmOne(ctx, id); err != nil {
			return processed, err
		}
		processed++
	}
	return processed, nil
}

func (r *LifecycleRepository) confirmOne(ctx context.Context, matchID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var userAID, userBID string
	err = tx.QueryRow(ctx, `
		SELECT user_a_id, user_b_id FROM final_matches WHERE id = $1 FOR UPDATE
	`, matchID).Scan(&userAID, &userBID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil // raced with a reject; nothing to confirm
		}
		return err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE final_matches SET acceptance_a = 'accepted', acceptance_b = 'accepted' WHERE id = $1
	`, matchID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
		UPDATE users SET status = 'confirmed', updated_at = now() WHERE id IN ($1, $2)
	`, userAID, userBID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
