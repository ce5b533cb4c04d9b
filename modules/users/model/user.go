package model

import "time"

// Status is the user lifecycle state. It advances monotonically except
// for the matched->form_completed revert path taken on a reject.
type Status string

const (
	StatusUnverified          Status = "unverified"
	StatusVerificationPending Status = "verification_pending"
	StatusVerified            Status = "verified"
	StatusFormCompleted       Status = "form_completed"
	StatusMatched             Status = "matched"
	StatusConfirmed           Status = "confirmed"
)

// User is a platform user. Identity/verification/email fields are carried
// here even though their issuance (JWT, verification codes) is an external
// collaborator. This core only reads and advances Status.
type User struct {
	ID        string
	Email     string
	Status    Status
	Grade     *int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserDTO is the serializable projection of User.
type UserDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Status    Status    `json:"status"`
	Grade     *int      `json:"grade,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToDTO converts User to UserDTO
func (u *User) ToDTO() *UserDTO {
	return &UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		Status:    u.Status,
		Grade:     u.Grade,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
