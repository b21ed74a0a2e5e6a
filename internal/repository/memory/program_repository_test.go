package memory

import (
	"context"
	"testing"

	"edupath-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPrograms(t *testing.T, repo *ProgramRepository) {
	t.Helper()
	err := repo.UpsertBulk(context.Background(), []*entity.Program{
		{Id: "p1", SchoolName: "A", Region: "US", Rank: 5, Embedding: []float32{1, 0}},
		{Id: "p2", SchoolName: "B", Region: "UK", Rank: 30, Embedding: []float32{0, 1}},
		{Id: "p3", SchoolName: "C", Region: "US", Rank: 12, Embedding: []float32{1, 0}},
		{Id: "p4", SchoolName: "D", Region: "US", Rank: 50, Embedding: []float32{1, 0, 0}},
	})
	require.NoError(t, err)
}

func TestProgramRepository_UpsertKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewProgramRepository()
	seedPrograms(t, repo)

	require.NoError(t, repo.UpsertBulk(ctx, []*entity.Program{
		{Id: "p1", SchoolName: "A2", Region: "US", Rank: 5, Embedding: []float32{1, 0}},
	}))

	all, err := repo.FindCandidates(ctx, entity.ProgramFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "p1", all[0].Id)
	assert.Equal(t, "A2", all[0].SchoolName)
	assert.Equal(t, int64(1), all[0].Seq)
	assert.NotNil(t, all[0].UpdatedAt)
}

func TestProgramRepository_FindCandidatesFilter(t *testing.T) {
	ctx := context.Background()
	repo := NewProgramRepository()
	seedPrograms(t, repo)

	got, err := repo.FindCandidates(ctx, entity.ProgramFilter{Region: "US", MaxRank: 20, ExcludeIds: []string{"p1"}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "p3", got[0].Id)

	n, err := repo.Count(ctx, entity.ProgramFilter{MinRank: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestProgramRepository_SearchSimilar(t *testing.T) {
	ctx := context.Background()
	repo := NewProgramRepository()
	seedPrograms(t, repo)

	got, err := repo.SearchSimilar(ctx, []float32{1, 0}, entity.ProgramFilter{}, 10)
	require.NoError(t, err)
	// p4 has three dimensions and is left out.
	require.Len(t, got, 3)
	assert.Equal(t, "p1", got[0].Program.Id)
	assert.Equal(t, "p3", got[1].Program.Id)
	assert.Equal(t, "p2", got[2].Program.Id)
	assert.InDelta(t, 1.0, got[0].Similarity, 1e-9)
	assert.InDelta(t, 0.0, got[2].Similarity, 1e-9)

	got, err = repo.SearchSimilar(ctx, []float32{1, 0}, entity.ProgramFilter{}, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestProgramRepository_FindByIDReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewProgramRepository()
	seedPrograms(t, repo)

	p, err := repo.FindByID(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, p)
	p.Embedding[0] = 42

	again, err := repo.FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, float32(1), again.Embedding[0])

	missing, err := repo.FindByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
