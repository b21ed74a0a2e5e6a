package contract

import (
	"context"

	"edupath-be/internal/entity"
)

// ScoredProgram wraps a Program with its cosine similarity to a query vector.
type ScoredProgram struct {
	Program    *entity.Program
	Similarity float64 // in [-1, 1]
}

// ProgramRepository is the catalog store. The recommendation path only reads from it.
type ProgramRepository interface {
	// UpsertBulk inserts or replaces programs by id, keeping the first insertion order.
	UpsertBulk(ctx context.Context, programs []*entity.Program) error
	FindByID(ctx context.Context, id string) (*entity.Program, error)
	// FindCandidates returns every program matching filter, in insertion order.
	FindCandidates(ctx context.Context, filter entity.ProgramFilter) ([]*entity.Program, error)
	// SearchSimilar runs a ranked query in the store: similarity descending,
	// insertion order on ties, at most limit rows.
	SearchSimilar(ctx context.Context, vector []float32, filter entity.ProgramFilter, limit int) ([]*ScoredProgram, error)
	Count(ctx context.Context, filter entity.ProgramFilter) (int64, error)
}
