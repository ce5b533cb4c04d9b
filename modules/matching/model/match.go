// Package model holds the Final Match aggregate emitted by the Final
// Assigner and the per-side acceptance state the Match
// Lifecycle advances.
package model

import "time"

// AcceptanceState is one side's state in a Final Match's mini state machine.
type AcceptanceState string

const (
	AcceptancePending  AcceptanceState = "pending"
	AcceptanceAccepted AcceptanceState = "accepted"
	AcceptanceRejected AcceptanceState = "rejected"
)

// FinalMatch is an unordered pair {a,b} stored with a < b (canonical
// ordering) emitted by the Final Assigner. It persists until a reject or an
// admin delete removes it; accepting, including the sweeper's auto-confirm
// after the timeout, only updates the acceptance fields.
type FinalMatch struct {
	ID          string
	UserAID     string
	UserBID     string
	Score       float64
	AcceptanceA AcceptanceState
	AcceptanceB AcceptanceState
	CreatedAt   time.Time
}

// SideOf reports whether userID is side A of the match, and whether userID
// belongs to the match at all. Callers use this to flip a single side
// without duplicating the A/B branch at every call site.
func (m *FinalMatch) SideOf(userID string) (isSideA bool, ok bool) {
	switch userID {
	case m.UserAID:
		return true, true
	case m.UserBID:
		return false, true
	default:
		return false, false
	}
}

// BothAccepted reports whether both sides have accepted.
func (m *FinalMatch) BothAccepted() bool {
	return m.AcceptanceA == AcceptanceAccepted && m.AcceptanceB == AcceptanceAccepted
}

// FinalMatchDTO is the serializable projection of FinalMatch.
type FinalMatchDTO struct {
	ID          string          `json:"id"`
	UserAID     string          `json:"user_a_id"`
	UserBID     string          `json:"user_b_id"`
	Score       float64         `json:"score"`
	AcceptanceA AcceptanceState `json:"acceptance_a"`
	AcceptanceB AcceptanceState `json:"acceptance_b"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToDTO converts FinalMatch to FinalMatchDTO.
func (m *FinalMatch) ToDTO() *FinalMatchDTO {
	return &FinalMatchDTO{
		ID:          m.ID,
		UserAID:     m.UserAID,
		UserBID:     m.UserBID,
		Score:       m.Score,
		AcceptanceA: m.AcceptanceA,
		AcceptanceB: m.AcceptanceB,
		CreatedAt:   m.CreatedAt,
	}
}

// Canonicalize returns (a, b) ordered so a < b, the canonical ordering
// that keeps {a,b} and {b,a} from producing duplicate rows.
func Canonicalize(x, y string) (a, b string) {
	if x < y {
		return x, y
	}
	return y, x
}
