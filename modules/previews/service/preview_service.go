// Package service implements the Preview Generator: for every
// eligible user, score against the opposite cohort and retain the top K.
package service

import (
	"container/heap"
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	previewmodel "github.com/hilomatch/hilo-core/modules/previews/model"
	"github.com/hilomatch/hilo-core/modules/previews/ports"
	scoringmodel "github.com/hilomatch/hilo-core/modules/scoring/model"
	scoringservice "github.com/hilomatch/hilo-core/modules/scoring/service"
	tagmodel "github.com/hilomatch/hilo-core/modules/tags/model"
	usermodel "github.com/hilomatch/hilo-core/modules/users/model"
	usersports "github.com/hilomatch/hilo-core/modules/users/ports"
	vetomodel "github.com/hilomatch/hilo-core/modules/vetoes/model"
)

// FormSnapshotReader is the narrow read contract the generator needs from
// the users module: a snapshot of forms for a set of statuses.
type FormSnapshotReader interface {
	SnapshotByStatuses(ctx context.Context, statuses []usermodel.Status) ([]*usersports.FormWithUser, error)
}

// VetoSnapshotReader is the narrow read contract the generator needs from
// the vetoes module: the full exclusion relation, loaded once per round.
type VetoSnapshotReader interface {
	ListAll(ctx context.Context) ([]*vetomodel.Veto, error)
}

// maxConcurrentWrites bounds how many per-user preview upserts run at once,
// so the generator never blocks read traffic beyond short transactions per
// user.
const maxConcurrentWrites = 16

// snapshotStatuses is the broader set the generator reads: previously
// matched and confirmed users still contribute to Tag Statistics, while
// only form_completed users are scored and get a preview row written.
var snapshotStatuses = []usermodel.Status{
	usermodel.StatusFormCompleted,
	usermodel.StatusMatched,
	usermodel.StatusConfirmed,
}

// PreviewService computes and persists per-user top-K candidate lists.
type PreviewService struct {
	forms   FormSnapshotReader
	vetoes  VetoSnapshotReader
	repo    ports.PreviewRepository
	catalog *tagmodel.Catalog
	weights scoringmodel.Weights
	k       int
}

// NewPreviewService wires the Preview Generator.
func NewPreviewService(forms FormSnapshotReader, vetoes VetoSnapshotReader, repo ports.PreviewRepository, catalog *tagmodel.Catalog, weights scoringmodel.Weights, k int) *PreviewService {
	return &PreviewService{forms: forms, vetoes: vetoes, repo: repo, catalog: catalog, weights: weights, k: k}
}

// candidate is an in-progress heap entry: a scored opposite-cohort user.
type candidate struct {
	userID string
	score  float64
}

// candidateHeap is a min-heap on score (then max userID, to evict the
// weakest/most-tied entry first) bounding the top-K retention per user to
// O(log K) per comparison.
type candidateHeap []candidate

func (h candidateHeap) Len() int { return len(h) }
func (h candidateHeap) Less(i, j int) bool {
	if h[i].score != h[j].score {
		return h[i].score < h[j].score
	}
	return h[i].userID > h[j].userID
}
func (h candidateHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *candidateHeap) Push(x interface{}) { *h = append(*h, x.(candidate)) }
func (h *candidateHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Generate runs a full Preview Generator round: it recomputes Tag
// Statistics over the broad snapshot, scores every eligible cross-cohort
// pair, and upserts each form_completed user's top-K. Running it twice with
// unchanged inputs produces byte-identical output: score ties break on
// ascending candidate id, and the bounded heap's eviction order is itself
// deterministic.
func (s *PreviewService) Generate(ctx context.Context) error {
	snapshot, err := s.forms.SnapshotByStatuses(ctx, snapshotStatuses)
	if err != nil {
		return err
	}

	stats := tagmodel.Compute(s.catalog, toTagSets(snapshot))

	vetoes, err := s.vetoes.ListAll(ctx)
	if err != nil {
		return err
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

	previews := make([]*previewmodel.Preview, 0, len(males)+len(females))
	previews = append(previews, s.previewsForCohort(males, females, excluded, stats)...)
	previews = append(previews, s.previewsForCohort(females, males, excluded, stats)...)

	return s.persist(ctx, previews)
}

// previewsForCohort computes, for every user in `side`, their top-K scored
// candidates from `opposite`.
func (s *PreviewService) previewsForCohort(side, opposite []*usersports.FormWithUser, excluded exclusionSet, stats *tagmodel.Stats) []*previewmodel.Preview {
	out := make([]*previewmodel.Preview, 0, len(side))
	for _, u := range side {
		h := &candidateHeap{}
		heap.Init(h)
		for _, v := range opposite {
			if excluded.isExcluded(u.UserID, v.UserID) {
				continue
			}
			score := scoringservice.Score(toScoringInput(u.Form), toScoringInput(v.Form), s.weights, stats)
			if score <= 0 {
				continue
			}
			heap.Push(h, candidate{userID: v.UserID, score: score})
			if h.Len() > s.k {
				heap.Pop(h)
			}
		}

		candidates := make([]previewmodel.Candidate, 0, h.Len())
		for _, c := range *h {
			candidates = append(candidates, previewmodel.Candidate{UserID: c.userID, Score: c.score})
		}
		sort.Slice(candidates, func(i, j int) bool {
			if candidates[i].Score != candidates[j].Score {
				return candidates[i].Score > candidates[j].Score
			}
			return candidates[i].UserID < candidates[j].UserID
		})

		out = append(out, &previewmodel.Preview{UserID: u.UserID, Candidates: candidates})
	}
	return out
}

// persist upserts every preview with bounded concurrency so no single round
// holds more than maxConcurrentWrites transactions open at once.
func (s *PreviewService) persist(ctx context.Context, previews []*previewmodel.Preview) error {
	sem := semaphore.NewWeighted(maxConcurrentWrites)
	g, gCtx := errgroup.WithContext(ctx)

	for _, p := range previews {
		p := p
		if err := sem.Acquire(gCtx, 1); err != nil {
			return err
		}
		g.Go(func() error {
			defer sem.Release(1)
			return s.repo.Upsert(gCtx, p)
		})
	}

	return g.Wait()
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

// exclusionSet is an in-memory symmetric veto relation, built once per round
// instead of one query per candidate pair in the O(M*F) scan.
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
