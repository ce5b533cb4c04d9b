package service

import (
	"context"

	"github.com/hilomatch/hilo-core/modules/vetoes/model"
	"github.com/hilomatch/hilo-core/modules/vetoes/ports"
)

// UserStatusLookup is the narrow read contract VetoService needs from the
// users module, avoiding a direct dependency on its repository.
type UserStatusLookup interface {
	StatusOf(ctx context.Context, userID string) (string, error)
}

const statusFormCompleted = "form_completed"

// VetoService inserts and lists a user's vetoes.
type VetoService struct {
	repo  ports.VetoRepository
	users UserStatusLookup
}

// NewVetoService wires the veto repository and a user-status lookup.
func NewVetoService(repo ports.VetoRepository, users UserStatusLookup) *VetoService {
	return &VetoService{repo: repo, users: users}
}

// Insert casts a veto. The caller must be status form_completed; a_id ==
// b_id is a Conflict.
func (s *VetoService) Insert(ctx context.Context, vetoerID string, req *model.InsertVetoRequest) (*model.VetoDTO, error) {
	if vetoerID == req.VetoedID {
		return nil, model.ErrSelfVeto
	}

	status, err := s.users.StatusOf(ctx, vetoerID)
	if err != nil {
		return nil, err
	}
	if status != statusFormCompleted {
		return nil, model.ErrVetoerNotEligible
	}

	veto := &model.Veto{VetoerID: vetoerID, VetoedID: req.VetoedID}
	if err := s.repo.Insert(ctx, veto); err != nil {
		return nil, err
	}
	return veto.ToDTO(), nil
}

// Delete removes a veto the caller previously cast.
func (s *VetoService) Delete(ctx context.Context, vetoerID, vetoedID string) error {
	return s.repo.Delete(ctx, vetoerID, vetoedID)
}

// ListByVetoer lists every veto cast by vetoerID.
func (s *VetoService) ListByVetoer(ctx context.Context, vetoerID string) ([]*model.VetoDTO, error) {
	vetoes, err := s.repo.ListByVetoer(ctx, vetoerID)
	if err != nil {
		return nil, err
	}

	dtos := make([]*model.VetoDTO, len(vetoes))
	for i, v := range vetoes {
		dtos[i] = v.ToDTO()
	}
	return dtos, nil
}
