package repository

import (
	"context"
	"testing"

	"github.com/hilomatch/hilo-core/modules/scheduler/model"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

// testSlotRepo mirrors SlotRepository.Claim/Delete against pgxmock's
// PgxPoolIface, since *pgxpool.Pool can't be substituted.
type testSlotRepo struct {
	mock pgxmock.PgxPoolIface
}

func (r *testSlotRepo) Claim(ctx context.Context, id string) (bool, error) {
	result, err := r.mock.Exec(ctx, "UPDATE scheduled_final_matches SET status", id)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func (r *testSlotRepo) Delete(ctx context.Context, id string) error {
	result, err := r.mock.Exec(ctx, "DELETE FROM scheduled_final_matches", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() > 0 {
		return nil
	}

	var status model.SlotStatus
	err = r.mock.QueryRow(ctx, "SELECT status FROM scheduled_final_matches", id).Scan(&status)
	if err != nil {
		return err
	}
	return model.ErrSlotNotPending
}

func TestSlotRepository_Claim_FalseWhenAlreadyClaimed(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("UPDATE scheduled_final_matches").WithArgs("s1").WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := &testSlotRepo{mock: mock}
	claimed, err := repo.Claim(context.Background(), "s1")

	require.NoError(t, err)
	require.False(t, claimed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepository_Claim_TrueWhenPending(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("UPDATE scheduled_final_matches").WithArgs("s1").WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	repo := &testSlotRepo{mock: mock}
	claimed, err := repo.Claim(context.Background(), "s1")

	require.NoError(t, err)
	require.True(t, claimed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepository_Delete_RejectsRunningSlot(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM scheduled_final_matches").WithArgs("s1").WillReturnResult(pgxmock.NewResult("DELETE", 0))
	rows := pgxmock.NewRows([]string{"status"}).AddRow(model.SlotRunning)
	mock.ExpectQuery("SELECT status FROM scheduled_final_matches").WithArgs("s1").WillReturnRows(rows)

	repo := &testSlotRepo{mock: mock}
	err = repo.Delete(context.Background(), "s1")

	require.ErrorIs(t, err, model.ErrSlotNotPending)
	require.NoError(t, mock.ExpectationsWereMet())
}
