// Package model holds the Match Preview aggregate: a per-user ranked list of
// candidate IDs from the opposite cohort, overwritten atomically on each
// preview-generation run.
package model

import "time"

// Candidate is one ranked entry in a user's preview list.
type Candidate struct {
	UserID string  `json:"user_id"`
	Score  float64 `json:"score"`
}

// Preview is a user's current top-K candidate list.
type Preview struct {
	UserID     string
	Candidates []Candidate
	UpdatedAt  time.Time
}

// PreviewDTO is the serializable projection of Preview.
type PreviewDTO struct {
	UserID     string      `json:"user_id"`
	Candidates []Candidate `json:"candidates"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// ToDTO converts Preview to PreviewDTO
func (p *Preview) ToDTO() *PreviewDTO {
	return &PreviewDTO{
		UserID:     p.UserID,
		Candidates: p.Candidates,
		UpdatedAt:  p.UpdatedAt,
	}
}
