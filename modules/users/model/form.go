package model

import "time"

// Gender is the binary cohort attribute the matching model partitions on.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// PhysicalBoundary is the 1..4 compatibility scale.
type PhysicalBoundary int

const (
	BoundaryMin PhysicalBoundary = 1
	BoundaryMax PhysicalBoundary = 4
)

// Form is one-to-one with a User and exists only once that user's status is
// >= form_completed.
type Form struct {
	UserID                string
	Gender                Gender
	FamiliarTags          []string
	AspirationalTags      []string
	SelfTraits            []string
	IdealTraits           []string
	PhysicalBoundary      PhysicalBoundary
	RecentTopics          string
	SelfIntro             string
	ProfilePhotoFilename  *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// FormDTO is the serializable projection of Form.
type FormDTO struct {
	Gender               Gender           `json:"gender"`
	FamiliarTags         []string         `json:"familiar_tags"`
	AspirationalTags     []string         `json:"aspirational_tags"`
	SelfTraits           []string         `json:"self_traits"`
	IdealTraits          []string         `json:"ideal_traits"`
	PhysicalBoundary     PhysicalBoundary `json:"physical_boundary"`
	RecentTopics         string           `json:"recent_topics"`
	SelfIntro            string           `json:"self_intro"`
	ProfilePhotoFilename *string          `json:"profile_photo_filename,omitempty"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// ToDTO converts Form to FormDTO
func (f *Form) ToDTO() *FormDTO {
	return &FormDTO{
		Gender:               f.Gender,
		FamiliarTags:         f.FamiliarTags,
		AspirationalTags:     f.AspirationalTags,
		SelfTraits:           f.SelfTraits,
		IdealTraits:          f.IdealTraits,
		PhysicalBoundary:     f.PhysicalBoundary,
		RecentTopics:         f.RecentTopics,
		SelfIntro:            f.SelfIntro,
		ProfilePhotoFilename: f.ProfilePhotoFilename,
		CreatedAt:            f.CreatedAt,
		UpdatedAt:            f.UpdatedAt,
	}
}

// SubmitFormRequest is the create-or-update form payload. Caller status
// must be in {verified, form_completed}.
type SubmitFormRequest struct {
	Gender               Gender           `json:"gender" binding:"required,oneof=male female"`
	FamiliarTags         []string         `json:"familiar_tags"`
	AspirationalTags     []string         `json:"aspirational_tags"`
	SelfTraits           []string         `json:"self_traits"`
	IdealTraits          []string         `json:"ideal_traits"`
	PhysicalBoundary     PhysicalBoundary `json:"physical_boundary" binding:"required,min=1,max=4"`
	RecentTopics         string           `json:"recent_topics"`
	SelfIntro            string           `json:"self_intro"`
	ProfilePhotoFilename *string          `json:"profile_photo_filename,omitempty"`
}
