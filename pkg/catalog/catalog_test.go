package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"edupath-be/internal/entity"
	"edupath-be/internal/pkg/logger"
	"edupath-be/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingEmbedder struct {
	calls int
	err   error
}

func (e *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return []float32{float32(len(text)), 1}, nil
}

func TestParse(t *testing.T) {
	data := []byte(`[
		{"id":"a","school_name":"MIT","program_name":"MS AI","region":"US","rank":1,"field":"AI","description":"  deep learning  "},
		{"id":"b","school_name":"UCL","program_name":"MSc ML","region":"UK","rank":9,"embedding":[1,0]},
		{"id":"a","school_name":"MIT","program_name":"MEng AI","region":"US","rank":1}
	]`)

	programs, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, programs, 2)
	assert.Equal(t, "a", programs[0].Id)
	assert.Equal(t, "MEng AI", programs[0].ProgramName)
	assert.Equal(t, []float32{1, 0}, programs[1].Embedding)
}

func TestParseRejectsBadRecords(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"missing id", `[{"school_name":"MIT","rank":1}]`},
		{"zero rank", `[{"id":"a","school_name":"MIT"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestDescriptionIsTruncated(t *testing.T) {
	p := Record{Id: "x", SchoolName: "S", Rank: 1, Description: strings.Repeat("é", maxDescriptionRunes+10)}.ToEntity()
	assert.Len(t, []rune(p.DescriptionText), maxDescriptionRunes)
}

func TestSeederEmbedsOnlyMissingVectors(t *testing.T) {
	emb := &countingEmbedder{}
	repo := memory.NewProgramRepository()
	programs := []*entity.Program{
		{Id: "a", SchoolName: "MIT", Rank: 1, DescriptionText: "ai"},
		{Id: "b", SchoolName: "UCL", Rank: 9, Embedding: []float32{0, 1}},
	}

	report, err := NewSeeder(emb, logger.NewNopLogger()).Seed(context.Background(), repo, programs)
	require.NoError(t, err)
	assert.Equal(t, SeedReport{Embedded: 1, Reused: 1, Stored: 2}, report)
	assert.Equal(t, 1, emb.calls)

	count, err := repo.Count(context.Background(), entity.ProgramFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestSeederStopsOnEmbeddingError(t *testing.T) {
	emb := &countingEmbedder{err: errors.New("quota")}
	repo := memory.NewProgramRepository()

	_, err := NewSeeder(emb, logger.NewNopLogger()).Seed(context.Background(), repo,
		[]*entity.Program{{Id: "a", SchoolName: "MIT", Rank: 1}})
	require.Error(t, err)

	count, _ := repo.Count(context.Background(), entity.ProgramFilter{})
	assert.Zero(t, count)
}
