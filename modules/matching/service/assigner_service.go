// Package service implements the Final Assigner: a single
// maximum-weight bipartite matching round over the entire form_completed
// cohort.
package service

import (
	"context"
	"sort"

	matchingmodel "github.com/hilomatch/hilo-core/modules/matching/model"
	"github.com/hilomatch/hilo-core/modules/matching/ports"
	scoringmodel "github.com/hilomatch/hilo-core/modules/scoring/model"
	scoringservice "github.com/hilomatch/hilo-core/modules/scoring/service"
	tagmodel "github.com/hilomatch/hilo-core/modules/tags/model"
	usermodel "github.com/hilomatch/hilo-core/modules/users/model"
	usersports "github.com/hilomatch/hilo-core/modules/users/ports"
	vetomodel "github.com/hilomatch/hilo-core/modules/vetoes/model"
)

// FormSnapshotReader is the narrow read contract the assigner needs from the
// users module, identical to the Preview Generator's.
type FormSnapshotReader interface {
	SnapshotByStatuses(ctx context.Context, statuses []usermodel.Status) ([]*usersports.FormWithUser, error)
}

// VetoSnapshotReader is the narrow read contract the assigner needs from the
// vetoes module: the full exclusion relation, loaded once per round.
type VetoSnapshotReader interface {
	ListAll(ctx context.Context) ([]*vetomodel.Veto, error)
}

// snapshotStatuses mirrors the Preview Generator's broader read: Tag
// Statistics are computed over every user who has ever submitted a form,
// but only the form_completed cohort is eligible for assignment.
var snapshotStatuses = []usermodel.Status{
	usermodel.StatusFormCompleted,
	usermodel.StatusMatched,
	usermodel.StatusConfirmed,
}

// AssignerService runs full assignment rounds.
type AssignerService struct {
	forms   FormSnapshotReader
	vetoes  VetoSnapshotReader
	rounds  ports.RoundRepository
	catalog *tagmodel.Catalog
	weights scoringmodel.Weights
}

// NewAssignerService wires the Final Assigner.
func NewAssignerService(forms FormSnapshotReader, vetoes VetoSnapshotReader, rounds ports.RoundRepository, catalog *tagmodel.Catalog, weights scoringmodel.Weights) *AssignerService {
	return &AssignerService{forms: forms, vetoes: vetoes, rounds: rounds, catalog: catalog, weights: weights}
}

// RunRound executes one Final Assigner round: it snapshots
// the form_completed cohort split by gender, scores every cross-cohort pair
// with vetoed edges forced to a forbidden sentinel, solves the padded
// square matrix for maximum weight, and persists every pair with positive
// weight as a Final Match. It returns the number of matches created.
func (s *AssignerService) RunRound(ctx context.Context) (int, error) {
	snapshot, err := s.forms.SnapshotByStatuses(ctx, snapshotStatuses)
	if err != nil {
		return 0, err
	}

	stats := tagmodel.Compute(s.catalog, toTagSets(snapshot))

	vetoes, err := s.vetoes.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	excluded := buildExclusionSet(vetoes)

	var males, females []*usersports.FormWithUser
	for _, fu := range snapshot {
		if fu.Status != usermodel.StatusFormCompleted {
			continue
		}
		switch fu.Form.Gender {
		case usermodel.GenderMale:
			males = append(males, fu)
		case usermodel.GenderFemale:
			females = append(females, fu)
		}
	}
	sortByUserID(males)
	sortByUserID(females)

	if len(males) == 0 || len(females) == 0 {
		return 0, nil
	}

	n := len(males)
	if len(females) > n {
		n = len(females)
	}

	maxReal := maxRealWeight(males, females, excluded, stats, s.weights)
	sentinel := matchingmodel.ForbiddenSentinel(n, maxReal)

	weights := make([][]float64, n)
	for i := 0; i < n; i++ {
		weights[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			if i >= len(males) || j >= len(females) {
				weights[i][j] = 0 // dummy padding row/column
				continue
			}
			m, f := males[i], females[j]
			if excluded.isExcluded(m.UserID, f.UserID) {
				weights[i][j] = sentinel
				continue
			}
			weights[i][j] = scoringservice.Score(toScoringInput(m.Form), toScoringInput(f.Form), s.weights, stats)
		}
	}

	assignment := matchingmodel.MaximumWeightMatching(weights)

	matches := make([]*matchingmodel.FinalMatch, 0, n)
	for i, j := range assignment.RowToCol {
		if i >= len(males) || j >= len(females) {
			continue // one side was dummy padding
		}
		if weights[i][j] <= 0 {
			continue
		}
		matches = append(matches, &matchingmodel.FinalMatch{
			UserAID: males[i].UserID,
			UserBID: females[j].UserID,
			Score:   weights[i][j],
		})
	}

	return s.rounds.ExecuteRound(ctx, matches)
}

// maxRealWeight bounds every non-forbidden pairwise score, the input
// ForbiddenSentinel needs to guarantee no chain of real edges ever loses to
// a forbidden one.
func maxRealWeight(males, females []*usersports.FormWithUser, excluded exclusionSet, stats *tagmodel.Stats, weights scoringmodel.Weights) float64 {
	max := 0.0
	for _, m := range males {
		for _, f := range females {
			if excluded.isExcluded(m.UserID, f.UserID) {
				continue
			}
			score := scoringservice.Score(toScoringInput(m.Form), toScoringInput(f.Form), weights, stats)
			if score > max {
				max = score
			}
		}
	}
	return max
}

func sortByUserID(list []*usersports.FormWithUser) {
	sort.Slice(list, func(i, j int) bool { return list[i].UserID < list[j].UserID })
}

func toScoringInput(f *usermodel.Form) scoringmodel.FormInput {
	return scoringmodel.FormInput{
		Familiar:         f.FamiliarTags,
		Aspirational:     f.AspirationalTags,
		SelfTraits:       f.SelfTraits,
		IdealTraits:      f.IdealTraits,
		PhysicalBoundary: int(f.PhysicalBoundary),
	}
}

func toTagSets(snapshot []*usersports.FormWithUser) []tagmodel.FormTagSet {
	sets := make([]tagmodel.FormTagSet, 0, len(snapshot))
	for _, fu := range snapshot {
		sets = append(sets, tagmodel.FormTagSet{
			Familiar:     fu.Form.FamiliarTags,
			Aspirational: fu.Form.AspirationalTags,
		})
	}
	return sets
}

// exclusionSet is an in-memory symmetric veto relation, built once per
// round instead of one query per candidate pair.
type exclusionSet map[[2]string]struct{}

func buildExclusionSet(vetoes []*vetomodel.Veto) exclusionSet {
	s := make(exclusionSet, len(vetoes))
	for _, v := range vetoes {
		s[pairKey(v.VetoerID, v.VetoedID)] = struct{}{}
	}
	return s
}

func (s exclusionSet) isExcluded(a, b string) bool {
	_, fwd := s[pairKey(a, b)]
	_, rev := s[pairKey(b, a)]
	return fwd || rev
}

func pairKey(a, b string) [2]string { return [2]string{a, b} }
