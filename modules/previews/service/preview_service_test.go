package service

import (
	"context"
	"testing"

	previewmodel "github.com/hilomatch/hilo-core/modules/previews/model"
	scoringmodel "github.com/hilomatch/hilo-core/modules/scoring/model"
	tagmodel "github.com/hilomatch/hilo-core/modules/tags/model"
	usermodel "github.com/hilomatch/hilo-core/modules/users/model"
	usersports "github.com/hilomatch/hilo-core/modules/users/ports"
	vetomodel "github.com/hilomatch/hilo-core/modules/vetoes/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCatalog = mustLoadCatalog(`[
	{"id":"t1","name":"t1","is_matchable":true},
	{"id":"t2","name":"t2","is_matchable":true},
	{"id":"t3","name":"t3","is_matchable":true}
]`)

func mustLoadCatalog(js string) *tagmodel.Catalog {
	c, err := tagmodel.Load([]byte(js))
	if err != nil {
		panic(err)
	}
	return c
}

var testWeights = scoringmodel.Weights{FF: 3, AF: 2, AA: 1, Trait: 1, Bound: 2}

type fakeFormReader struct {
	snapshot []*usersports.FormWithUser
}

func (f *fakeFormReader) SnapshotByStatuses(ctx context.Context, statuses []usermodel.Status) ([]*usersports.FormWithUser, error) {
	return f.snapshot, nil
}

type fakeVetoReader struct {
	vetoes []*vetomodel.Veto
}

func (f *fakeVetoReader) ListAll(ctx context.Context) ([]*vetomodel.Veto, error) {
	return f.vetoes, nil
}

type fakePreviewRepo struct {
	upserted map[string]*previewmodel.Preview
}

func newFakePreviewRepo() *fakePreviewRepo {
	return &fakePreviewRepo{upserted: make(map[string]*previewmodel.Preview)}
}

func (r *fakePreviewRepo) Upsert(ctx context.Context, p *previewmodel.Preview) error {
	r.upserted[p.UserID] = p
	return nil
}
func (r *fakePreviewRepo) UpsertAll(ctx context.Context, previews []*previewmodel.Preview) error {
	for _, p := range previews {
		r.upserted[p.UserID] = p
	}
	return nil
}
func (r *fakePreviewRepo) GetByUserID(ctx context.Context, userID string) (*previewmodel.Preview, error) {
	if p, ok := r.upserted[userID]; ok {
		return p, nil
	}
	return &previewmodel.Preview{UserID: userID}, nil
}
func (r *fakePreviewRepo) DeleteAll(ctx context.Context) error { r.upserted = map[string]*previewmodel.Preview{}; return nil }
func (r *fakePreviewRepo) DeleteByUserID(ctx context.Context, userID string) error {
	delete(r.upserted, userID)
	return nil
}

func form(userID string, gender usermodel.Gender, familiar, aspirational []string) *usersports.FormWithUser {
	return formPB(userID, gender, familiar, aspirational, 2)
}

func formPB(userID string, gender usermodel.Gender, familiar, aspirational []string, pb usermodel.PhysicalBoundary) *usersports.FormWithUser {
	return &usersports.FormWithUser{
		UserID: userID,
		Status: usermodel.StatusFormCompleted,
		Form: &usermodel.Form{
			UserID:           userID,
			Gender:           gender,
			FamiliarTags:     familiar,
			AspirationalTags: aspirational,
			PhysicalBoundary: pb,
		},
	}
}

func TestPreviewService_Generate_RanksAndPersists(t *testing.T) {
	// f2 shares no tags with m1 and sits at maximum boundary disagreement,
	// so its pairwise score is exactly 0 and it must not appear as a
	// candidate, but it still gets its own (empty) previews row.
	snapshot := []*usersports.FormWithUser{
		formPB("m1", usermodel.GenderMale, []string{"t1"}, nil, 1),
		formPB("f1", usermodel.GenderFemale, []string{"t1"}, nil, 1),
		formPB("f2", usermodel.GenderFemale, nil, nil, 4),
	}
	repo := newFakePreviewRepo()
	svc := NewPreviewService(&fakeFormReader{snapshot: snapshot}, &fakeVetoReader{}, repo, testCatalog, testWeights, 10)

	require.NoError(t, svc.Generate(context.Background()))

	m1 := repo.upserted["m1"]
	require.NotNil(t, m1)
	require.Len(t, m1.Candidates, 1)
	assert.Equal(t, "f1", m1.Candidates[0].UserID)

	f2 := repo.upserted["f2"]
	require.NotNil(t, f2)
	assert.Empty(t, f2.Candidates)
}

func TestPreviewService_Generate_ExcludesVetoedPair(t *testing.T) {
	snapshot := []*usersports.FormWithUser{
		form("m1", usermodel.GenderMale, []string{"t1"}, nil),
		form("f1", usermodel.GenderFemale, []string{"t1"}, nil),
	}
	repo := newFakePreviewRepo()
	vetoes := []*vetomodel.Veto{{VetoerID: "m1", VetoedID: "f1"}}
	svc := NewPreviewService(&fakeFormReader{snapshot: snapshot}, &fakeVetoReader{vetoes: vetoes}, repo, testCatalog, testWeights, 10)

	require.NoError(t, svc.Generate(context.Background()))

	assert.Empty(t, repo.upserted["m1"].Candidates)
}

func TestPreviewService_Generate_RetainsTopK(t *testing.T) {
	snapshot := []*usersports.FormWithUser{
		form("m1", usermodel.GenderMale, []string{"t1", "t2", "t3"}, nil),
		form("f1", usermodel.GenderFemale, []string{"t1"}, nil),
		form("f2", usermodel.GenderFemale, []string{"t1", "t2"}, nil),
		form("f3", usermodel.GenderFemale, []string{"t1", "t2", "t3"}, nil),
	}
	repo := newFakePreviewRepo()
	svc := NewPreviewService(&fakeFormReader{snapshot: snapshot}, &fakeVetoReader{}, repo, testCatalog, testWeights, 2)

	require.NoError(t, svc.Generate(context.Background()))

	m1 := repo.upserted["m1"]
	require.Len(t, m1.Candidates, 2)
	assert.Equal(t, "f3", m1.Candidates[0].UserID)
	assert.Equal(t, "f2", m1.Candidates[1].UserID)
	assert.GreaterOrEqual(t, m1.Candidates[0].Score, m1.Candidates[1].Score)
}

func TestPreviewService_Generate_Idempotent(t *testing.T) {
	snapshot := []*usersports.FormWithUser{
		form("m1", usermodel.GenderMale, []string{"t1"}, nil),
		form("f1", usermodel.GenderFemale, []string{"t1"}, nil),
	}
	repo := newFakePreviewRepo()
	svc := NewPreviewService(&fakeFormReader{snapshot: snapshot}, &fakeVetoReader{}, repo, testCatalog, testWeights, 10)

	require.NoError(t, svc.Generate(context.Background()))
	first := repo.upserted["m1"].Candidates

	require.NoError(t, svc.Generate(context.Background()))
	second := repo.upserted["m1"].Candidates

	assert.Equal(t, first, second)
}
