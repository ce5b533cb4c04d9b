package service

import (
	"context"
	"testing"

	usermodel "github.com/hilomatch/hilo-core/modules/users/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_StatusOf_ReturnsStatusAsString(t *testing.T) {
	repo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, userID string) (*usermodel.User, error) {
			return &usermodel.User{ID: userID, Status: usermodel.StatusMatched}, nil
		},
	}
	svc := NewUserService(repo)

	status, err := svc.StatusOf(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, "matched", status)
}

func TestUserService_StatusOf_PropagatesNotFound(t *testing.T) {
	repo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, userID string) (*usermodel.User, error) {
			return nil, usermodel.ErrUserNotFound
		},
	}
	svc := NewUserService(repo)

	_, err := svc.StatusOf(context.Background(), "missing")

	assert.ErrorIs(t, err, usermodel.ErrUserNotFound)
}
