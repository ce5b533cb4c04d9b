package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	matchingmodel "github.com/hilomatch/hilo-core/modules/matching/model"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

// testLifecycleRepo mirrors LifecycleRepository's query logic against
// pgxmock's PgxPoolIface, since *pgxpool.Pool can't be substituted.
type testLifecycleRepo struct {
	mock pgxmock.PgxPoolIface
}

func (r *testLifecycleRepo) Accept(ctx context.Context, matchID, userID string) (*matchingmodel.FinalMatch, error) {
	tx, err := r.mock.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	m := &matchingmodel.FinalMatch{}
	err = tx.QueryRow(ctx, "SELECT .* FROM final_matches WHERE id = \\$1 FOR UPDATE", matchID).
		Scan(&m.ID, &m.UserAID, &m.UserBID, &m.Score, &m.AcceptanceA, &m.AcceptanceB, &m.CreatedAt)
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

	if _, err := tx.Exec(ctx, "UPDATE final_matches SET acceptance_a", m.AcceptanceA, m.AcceptanceB, m.ID); err != nil {
		return nil, err
	}
	if m.BothAccepted() {
		if _, err := tx.Exec(ctx, "UPDATE users SET status", m.UserAID, m.UserBID); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *testLifecycleRepo) AdminDelete(ctx context.Context, matchID string) error {
	tx, err := r.mock.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var userAID, userBID string
	err = tx.QueryRow(ctx, "SELECT user_a_id, user_b_id FROM final_matches WHERE id = \\$1 FOR UPDATE", matchID).
		Scan(&userAID, &userBID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return matchingmodel.ErrMatchNotFound
		}
		return err
	}

	if _, err := tx.Exec(ctx, "DELETE FROM final_matches", matchID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "UPDATE users SET status", userAID, userBID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "DELETE FROM match_previews", userAID, userBID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func TestLifecycleRepository_AdminDelete_RevertsBothSidesWithoutCallerCheck(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"user_a_id", "user_b_id"}).AddRow("a", "b")

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT user_a_id, user_b_id FROM final_matches").WithArgs("match-1").WillReturnRows(rows)
	mock.ExpectExec("DELETE FROM final_matches").WithArgs("match-1").WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("UPDATE users SET status").WithArgs("a", "b").WillReturnResult(pgxmock.NewResult("UPDATE", 2))
	mock.ExpectExec("DELETE FROM match_previews").WithArgs("a", "b").WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectCommit()

	repo := &testLifecycleRepo{mock: mock}
	// Note there is no "caller user id" argument at all: an admin can
	// force the revert regardless of which two users are on the match.
	err = repo.AdminDelete(context.Background(), "match-1")

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLifecycleRepository_AdminDelete_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT user_a_id, user_b_id FROM final_matches").WithArgs("missing").WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	repo := &testLifecycleRepo{mock: mock}
	err = repo.AdminDelete(context.Background(), "missing")

	require.ErrorIs(t, err, matchingmodel.ErrMatchNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLifecycleRepository_Accept_ConfirmsBothOnSecondAccept(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	createdAt := time.Now().UTC()
	rows := pgxmock.NewRows([]string{"id", "user_a_id", "user_b_id", "score", "acceptance_a", "acceptance_b", "created_at"}).
		AddRow("match-1", "a", "b", 5.0, matchingmodel.AcceptanceAccepted, matchingmodel.AcceptancePending, createdAt)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM final_matches").WithArgs("match-1").WillReturnRows(rows)
	mock.ExpectExec("UPDATE final_matches SET acceptance_a").
		WithArgs(matchingmodel.AcceptanceAccepted, matchingmodel.AcceptanceAccepted, "match-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE users SET status").WithArgs("a", "b").WillReturnResult(pgxmock.NewResult("UPDATE", 2))
	mock.ExpectCommit()

	repo := &testLifecycleRepo{mock: mock}
	m, err := repo.Accept(context.Background(), "match-1", "b")

	require.NoError(t, err)
	require.Equal(t, matchingmodel.AcceptanceAccepted, m.AcceptanceB)
	require.True(t, m.BothAccepted())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLifecycleRepository_Accept_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM final_matches").WithArgs("missing").WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	repo := &testLifecycleRepo{mock: mock}
	_, err = repo.Accept(context.Background(), "missing", "b")

	require.ErrorIs(t, err, matchingmodel.ErrMatchNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
