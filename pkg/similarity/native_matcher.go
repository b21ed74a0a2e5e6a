package similarity

import (
	"context"
	"fmt"

	"edupath-be/internal/entity"
	"edupath-be/internal/pkg/apperror"
	"edupath-be/internal/repository/contract"
	"edupath-be/pkg/vector"
)

// NativeMatcher delegates ranking to the store (pgvector cosine distance).
// Rows with a different dimension are excluded by the store and not reported.
type NativeMatcher struct {
	repo contract.ProgramRepository
}

func NewNativeMatcher(repo contract.ProgramRepository) *NativeMatcher {
	return &NativeMatcher{repo: repo}
}

func (m *NativeMatcher) Search(ctx context.Context, query []float32, filter entity.ProgramFilter, limit int) (Result, error) {
	if limit <= 0 {
		return Result{Matches: []contract.ScoredProgram{}}, nil
	}
	if len(query) == 0 {
		return Result{}, fmt.Errorf("%w: empty query vector", apperror.ErrInvalidInput)
	}

	rows, err := m.repo.SearchSimilar(ctx, query, filter, limit)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", apperror.ErrCatalogUnavailable, err)
	}

	result := Result{Matches: make([]contract.ScoredProgram, 0, len(rows))}
	for _, row := range rows {
		result.Matches = append(result.Matches, contract.ScoredProgram{
			Program:    row.Program,
			Similarity: vector.Clamp(row.Similarity),
		})
	}
	return result, nil
}
