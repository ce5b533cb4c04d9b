package repository

import (
	"context"
	"testing"
	"time"

	"github.com/hilomatch/hilo-core/modules/vetoes/model"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

// testVetoRepo mirrors VetoRepository.Insert/ListByVetoer/IsExcluded against
// pgxmock's PgxPoolIface (the real repository depends on *pgxpool.Pool
// directly, which pgxmock cannot substitute for).
type testVetoRepo struct {
	mock pgxmock.PgxPoolIface
}

func (r *testVetoRepo) Insert(ctx context.Context, veto *model.Veto) error {
	veto.ID = "veto-id"
	veto.CreatedAt = time.Now().UTC()
	_, err := r.mock.Exec(ctx, "INSERT INTO vetoes", veto.ID, veto.VetoerID, veto.VetoedID, veto.CreatedAt)
	return err
}

func (r *testVetoRepo) ListByVetoer(ctx context.Context, vetoerID string) ([]*model.Veto, error) {
	rows, err := r.mock.Query(ctx, "SELECT id, vetoer_id, vetoed_id, created_at FROM vetoes WHERE vetoer_id", vetoerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Veto
	for rows.Next() {
		v := &model.Veto{}
		if err := rows.Scan(&v.ID, &v.VetoerID, &v.VetoedID, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *testVetoRepo) Delete(ctx context.Context, vetoerID, vetoedID string) error {
	result, err := r.mock.Exec(ctx, "DELETE FROM vetoes WHERE vetoer_id", vetoerID, vetoedID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrVetoNotFound
	}
	return nil
}

func (r *testVetoRepo) IsExcluded(ctx context.Context, a, b string) (bool, error) {
	var excluded bool
	err := r.mock.QueryRow(ctx, "SELECT EXISTS", a, b).Scan(&excluded)
	return excluded, err
}

func TestVetoRepository_Insert_IdempotentOnConflict(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO vetoes").
		WithArgs("veto-id", "u1", "u2", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	repo := &testVetoRepo{mock: mock}
	err = repo.Insert(context.Background(), &model.Veto{VetoerID: "u1", VetoedID: "u2"})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVetoRepository_Delete_NotFoundWhenNoRowAffected(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM vetoes WHERE vetoer_id").WithArgs("u1", "u2").WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := &testVetoRepo{mock: mock}
	err = repo.Delete(context.Background(), "u1", "u2")

	require.ErrorIs(t, err, model.ErrVetoNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVetoRepository_Delete_RemovesEdge(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM vetoes WHERE vetoer_id").WithArgs("u1", "u2").WillReturnResult(pgxmock.NewResult("DELETE", 1))

	repo := &testVetoRepo{mock: mock}
	err = repo.Delete(context.Background(), "u1", "u2")

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVetoRepository_ListByVetoer_ReturnsRows(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{"id", "vetoer_id", "vetoed_id", "created_at"}).
		AddRow("v1", "u1", "u2", now).
		AddRow("v2", "u1", "u3", now)
	mock.ExpectQuery("SELECT id, vetoer_id, vetoed_id, created_at FROM vetoes WHERE vetoer_id").WithArgs("u1").WillReturnRows(rows)

	repo := &testVetoRepo{mock: mock}
	out, err := repo.ListByVetoer(context.Background(), "u1")

	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "u2", out[0].VetoedID)
	require.Equal(t, "u3", out[1].VetoedID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVetoRepository_IsExcluded_TrueWhenEitherDirectionExists(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"exists"}).AddRow(true)
	mock.ExpectQuery("SELECT EXISTS").WithArgs("u2", "u1").WillReturnRows(rows)

	repo := &testVetoRepo{mock: mock}
	excluded, err := repo.IsExcluded(context.Background(), "u2", "u1")

	require.NoError(t, err)
	require.True(t, excluded)
	require.NoError(t, mock.ExpectationsWereMet())
}
