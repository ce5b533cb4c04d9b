package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	tagmodel "github.com/hilomatch/hilo-core/modules/tags/model"
	usermodel "github.com/hilomatch/hilo-core/modules/users/model"
	"github.com/hilomatch/hilo-core/modules/users/ports"
	"github.com/hilomatch/hilo-core/modules/users/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockUserRepository implements ports.UserRepository
type MockUserRepository struct {
	GetByIDFunc      func(ctx context.Context, userID string) (*usermodel.User, error)
	UpdateStatusFunc func(ctx context.Context, userID string, status usermodel.Status) error
}

func (m *MockUserRepository) GetByID(ctx context.Context, userID string) (*usermodel.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockUserRepository) UpdateStatus(ctx context.Context, userID string, status usermodel.Status) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, userID, status)
	}
	return nil
}

// MockFormRepository implements ports.FormRepository
type MockFormRepository struct {
	UpsertFunc      func(ctx context.Context, form *usermodel.Form) error
	GetByUserIDFunc func(ctx context.Context, userID string) (*usermodel.Form, error)
}

func (m *MockFormRepository) Upsert(ctx context.Context, form *usermodel.Form) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, form)
	}
	return nil
}

func (m *MockFormRepository) GetByUserID(ctx context.Context, userID string) (*usermodel.Form, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockFormRepository) SnapshotByStatuses(ctx context.Context, statuses []usermodel.Status) ([]*ports.FormWithUser, error) {
	return nil, nil
}

const testCatalogJSON = `[
	{"id": "music", "name": "Music", "is_matchable": true, "children": [
		{"id": "music.jazz", "name": "Jazz", "is_matchable": true}
	]}
]`

func setupTestRouter(t *testing.T, userRepo *MockUserRepository, formRepo *MockFormRepository) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalog, err := tagmodel.Load([]byte(testCatalogJSON))
	require.NoError(t, err)
	traits := service.KnownTraits{"curious": {}, "planner": {}}

	router := gin.New()
	handler := NewFormHandler(service.NewFormService(userRepo, formRepo, catalog, traits, 10))
	handler.RegisterRoutes(router.Group("/api/v1"))
	return router
}

func verifiedUserRepo() *MockUserRepository {
	return &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, userID string) (*usermodel.User, error) {
			return &usermodel.User{ID: userID, Status: usermodel.StatusVerified}, nil
		},
	}
}

func TestFormHandler_Submit(t *testing.T) {
	t.Run("submits form successfully", func(t *testing.T) {
		router := setupTestRouter(t, verifiedUserRepo(), &MockFormRepository{})

		body := `{
			"gender": "male",
			"familiar_tags": ["music.jazz"],
			"self_traits": ["curious"],
			"ideal_traits": ["planner"],
			"physical_boundary": 2
		}`
		req, _ := http.NewRequest(http.MethodPut, "/api/v1/users/u1/form", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response usermodel.FormDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, usermodel.GenderMale, response.Gender)
	})

	t.Run("returns 400 for invalid payload", func(t *testing.T) {
		router := setupTestRouter(t, verifiedUserRepo(), &MockFormRepository{})

		req, _ := http.NewRequest(http.MethodPut, "/api/v1/users/u1/form", bytes.NewBufferString(`not json`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("returns 400 for unknown tag", func(t *testing.T) {
		router := setupTestRouter(t, verifiedUserRepo(), &MockFormRepository{})

		body := `{"gender": "male", "familiar_tags": ["does-not-exist"], "physical_boundary": 2}`
		req, _ := http.NewRequest(http.MethodPut, "/api/v1/users/u1/form", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("returns 409 for ineligible status", func(t *testing.T) {
		userRepo := &MockUserRepository{
			GetByIDFunc: func(ctx context.Context, userID string) (*usermodel.User, error) {
				return &usermodel.User{ID: userID, Status: usermodel.StatusUnverified}, nil
			},
		}
		router := setupTestRouter(t, userRepo, &MockFormRepository{})

		body := `{"gender": "male", "physical_boundary": 2}`
		req, _ := http.NewRequest(http.MethodPut, "/api/v1/users/u1/form", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestFormHandler_Get(t *testing.T) {
	t.Run("returns the form", func(t *testing.T) {
		formRepo := &MockFormRepository{
			GetByUserIDFunc: func(ctx context.Context, userID string) (*usermodel.Form, error) {
				return &usermodel.Form{
					UserID:           userID,
					Gender:           usermodel.GenderFemale,
					FamiliarTags:     []string{"music.jazz"},
					PhysicalBoundary: 3,
				}, nil
			},
		}
		router := setupTestRouter(t, verifiedUserRepo(), formRepo)

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/users/u1/form", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response usermodel.FormDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, usermodel.GenderFemale, response.Gender)
	})

	t.Run("returns 404 when no form exists", func(t *testing.T) {
		formRepo := &MockFormRepository{
			GetByUserIDFunc: func(ctx context.Context, userID string) (*usermodel.Form, error) {
				return nil, usermodel.ErrFormNotFound
			},
		}
		router := setupTestRouter(t, verifiedUserRepo(), formRepo)

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/users/u1/form", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
