package service

import (
	"context"

	"github.com/hilomatch/hilo-core/modules/users/ports"
)

// UserService is the narrow read surface other modules (vetoes, lifecycle)
// depend on instead of importing modules/users/ports directly, avoiding a
// module-to-module dependency on anything beyond "what's this user's
// status".
type UserService struct {
	repo ports.UserRepository
}

// NewUserService wires the user repository.
func NewUserService(repo ports.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// StatusOf returns userID's current status as a plain string, satisfying
// every module-local UserStatusLookup interface (modules/vetoes,
// modules/lifecycle) without those modules importing modules/users/model.
func (s *UserService) StatusOf(ctx context.Context, userID string) (string, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return string(user.Status), nil
}
