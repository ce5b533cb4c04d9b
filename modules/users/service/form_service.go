package service

import (
	"context"

	tagmodel "github.com/hilomatch/hilo-core/modules/tags/model"
	usermodel "github.com/hilomatch/hilo-core/modules/users/model"
	"github.com/hilomatch/hilo-core/modules/users/ports"
)

// KnownTraits is the closed vocabulary of trait ids self_traits/ideal_traits
// may reference. Unlike tags, traits are not hierarchical, so a
// flat set is all validation needs.
type KnownTraits map[string]struct{}

func (t KnownTraits) Has(id string) bool {
	_, ok := t[id]
	return ok
}

// FormService implements form submission, validating the form against the
// Tag Catalog and the known trait vocabulary before persisting it.
type FormService struct {
	userRepo    ports.UserRepository
	formRepo    ports.FormRepository
	catalog     *tagmodel.Catalog
	traits      KnownTraits
	totalTags   int
}

// NewFormService wires the repositories plus the loaded Tag Catalog and the
// TOTAL_TAGS limit from config.MatchingConfig.
func NewFormService(userRepo ports.UserRepository, formRepo ports.FormRepository, catalog *tagmodel.Catalog, traits KnownTraits, totalTags int) *FormService {
	return &FormService{
		userRepo:  userRepo,
		formRepo:  formRepo,
		catalog:   catalog,
		traits:    traits,
		totalTags: totalTags,
	}
}

// Submit validates and persists a user's form, advancing their status to
// form_completed. Eligible source statuses are verified and form_completed
// itself (resubmission).
func (s *FormService) Submit(ctx context.Context, userID string, req *usermodel.SubmitFormRequest) (*usermodel.FormDTO, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.Status != usermodel.StatusVerified && user.Status != usermodel.StatusFormCompleted {
		return nil, usermodel.ErrFormNotEligible
	}

	if err := s.validate(req); err != nil {
		return nil, err
	}

	form := &usermodel.Form{
		UserID:               userID,
		Gender:               req.Gender,
		FamiliarTags:         req.FamiliarTags,
		AspirationalTags:     req.AspirationalTags,
		SelfTraits:           req.SelfTraits,
		IdealTraits:          req.IdealTraits,
		PhysicalBoundary:     req.PhysicalBoundary,
		RecentTopics:         req.RecentTopics,
		SelfIntro:            req.SelfIntro,
		ProfilePhotoFilename: req.ProfilePhotoFilename,
	}

	if err := s.formRepo.Upsert(ctx, form); err != nil {
		return nil, err
	}

	if user.Status != usermodel.StatusFormCompleted {
		if err := s.userRepo.UpdateStatus(ctx, userID, usermodel.StatusFormCompleted); err != nil {
			return nil, err
		}
	}

	return form.ToDTO(), nil
}

// GetByUserID returns a user's form.
func (s *FormService) GetByUserID(ctx context.Context, userID string) (*usermodel.FormDTO, error) {
	form, err := s.formRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return form.ToDTO(), nil
}

func (s *FormService) validate(req *usermodel.SubmitFormRequest) error {
	if req.PhysicalBoundary < usermodel.BoundaryMin || req.PhysicalBoundary > usermodel.BoundaryMax {
		return usermodel.ErrInvalidBoundary
	}

	combined := len(req.FamiliarTags) + len(req.AspirationalTags)
	if combined > s.totalTags {
		return usermodel.ErrTooManyTags
	}

	familiar := make(map[string]struct{}, len(req.FamiliarTags))
	for _, id := range req.FamiliarTags {
		if !s.catalog.IsLeaf(id) {
			return usermodel.ErrUnknownTag
		}
		familiar[id] = struct{}{}
	}

	for _, id := range req.AspirationalTags {
		if !s.catalog.IsLeaf(id) {
			return usermodel.ErrUnknownTag
		}
		if _, overlap := familiar[id]; overlap {
			return usermodel.ErrTagSetOverlap
		}
	}

	for _, id := range req.SelfTraits {
		if !s.traits.Has(id) {
			return usermodel.ErrUnknownTrait
		}
	}
	for _, id := range req.IdealTraits {
		if !s.traits.Has(id) {
			return usermodel.ErrUnknownTrait
		}
	}

	return nil
}
