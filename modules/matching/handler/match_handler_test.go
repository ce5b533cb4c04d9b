package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hilomatch/hilo-core/modules/matching/model"
	"github.com/hilomatch/hilo-core/modules/matching/service"
	scoringmodel "github.com/hilomatch/hilo-core/modules/scoring/model"
	tagmodel "github.com/hilomatch/hilo-core/modules/tags/model"
	usermodel "github.com/hilomatch/hilo-core/modules/users/model"
	usersports "github.com/hilomatch/hilo-core/modules/users/ports"
	vetomodel "github.com/hilomatch/hilo-core/modules/vetoes/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockMatchRepository implements ports.MatchRepository
type MockMatchRepository struct {
	GetByIDFunc     func(ctx context.Context, id string) (*model.FinalMatch, error)
	GetByUserIDFunc func(ctx context.Context, userID string) (*model.FinalMatch, error)
	ListAllFunc     func(ctx context.Context) ([]*model.FinalMatch, error)
}

func (m *MockMatchRepository) GetByID(ctx context.Context, id string) (*model.FinalMatch, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockMatchRepository) GetByUserID(ctx context.Context, userID string) (*model.FinalMatch, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockMatchRepository) ListAll(ctx context.Context) ([]*model.FinalMatch, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, nil
}

type fakeFormReader struct {
	snapshot []*usersports.FormWithUser
}

func (f *fakeFormReader) SnapshotByStatuses(ctx context.Context, statuses []usermodel.Status) ([]*usersports.FormWithUser, error) {
	return f.snapshot, nil
}

type fakeVetoReader struct{}

func (f *fakeVetoReader) ListAll(ctx context.Context) ([]*vetomodel.Veto, error) {
	return nil, nil
}

type fakeRoundRepo struct {
	matches []*model.FinalMatch
}

func (r *fakeRoundRepo) ExecuteRound(ctx context.Context, matches []*model.FinalMatch) (int, error) {
	r.matches = matches
	return len(matches), nil
}

var testCatalog = mustLoadCatalog(`[{"id":"t1","name":"t1","is_matchable":true}]`)

func mustLoadCatalog(js string) *tagmodel.Catalog {
	c, err := tagmodel.Load([]byte(js))
	if err != nil {
		panic(err)
	}
	return c
}

func setupTestRouter(matches *MockMatchRepository, snapshot []*usersports.FormWithUser) *gin.Engine {
	gin.SetMode(gin.TestMode)
	weights := scoringmodel.Weights{FF: 3, AF: 2, AA: 1, Trait: 1, Bound: 2}
	assigner := service.NewAssignerService(&fakeFormReader{snapshot: snapshot}, &fakeVetoReader{}, &fakeRoundRepo{}, testCatalog, weights)

	router := gin.New()
	handler := NewMatchHandler(assigner, matches)
	handler.RegisterRoutes(router.Group("/api/v1"))
	return router
}

func finalMatch(id string) *model.FinalMatch {
	return &model.FinalMatch{
		ID:          id,
		UserAID:     "a",
		UserBID:     "b",
		Score:       6.5,
		AcceptanceA: model.AcceptancePending,
		AcceptanceB: model.AcceptancePending,
		CreatedAt:   time.Now().UTC(),
	}
}

func TestMatchHandler_GetByID(t *testing.T) {
	t.Run("returns the match", func(t *testing.T) {
		matches := &MockMatchRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*model.FinalMatch, error) {
				return finalMatch(id), nil
			},
		}
		router := setupTestRouter(matches, nil)

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/matches/match-1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response model.FinalMatchDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "match-1", response.ID)
	})

	t.Run("returns 404 when the match does not exist", func(t *testing.T) {
		matches := &MockMatchRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*model.FinalMatch, error) {
				return nil, model.ErrMatchNotFound
			},
		}
		router := setupTestRouter(matches, nil)

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/matches/missing", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestMatchHandler_GetByUserID(t *testing.T) {
	matches := &MockMatchRepository{
		GetByUserIDFunc: func(ctx context.Context, userID string) (*model.FinalMatch, error) {
			return finalMatch("match-1"), nil
		},
	}
	router := setupTestRouter(matches, nil)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/users/a/match", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response model.FinalMatchDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "a", response.UserAID)
}

func TestMatchHandler_List(t *testing.T) {
	matches := &MockMatchRepository{
		ListAllFunc: func(ctx context.Context) ([]*model.FinalMatch, error) {
			return []*model.FinalMatch{finalMatch("match-1"), finalMatch("match-2")}, nil
		},
	}
	router := setupTestRouter(matches, nil)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/admin/matches", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []*model.FinalMatchDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response, 2)
}

func TestMatchHandler_TriggerRound(t *testing.T) {
	// An empty cohort is a legal round: zero matches created, still a 200.
	router := setupTestRouter(&MockMatchRepository{}, nil)

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/admin/matches/run", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]int
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 0, response["matches_created"])
}
