package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"edupath-be/internal/entity"
	"edupath-be/internal/repository/contract"
	"edupath-be/pkg/vector"
)

var _ contract.ProgramRepository = (*ProgramRepository)(nil)

// ProgramRepository is an in-process catalog, used for demos and tests.
type ProgramRepository struct {
	mu       sync.RWMutex
	programs []*entity.Program
	byID     map[string]int
	nextSeq  int64
}

func NewProgramRepository() *ProgramRepository {
	return &ProgramRepository{
		byID: make(map[string]int),
	}
}

func (r *ProgramRepository) UpsertBulk(ctx context.Context, programs []*entity.Program) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for _, p := range programs {
		c := p.Clone()
		if idx, ok := r.byID[c.Id]; ok {
			old := r.programs[idx]
			c.Seq = old.Seq
			c.CreatedAt = old.CreatedAt
			c.UpdatedAt = &now
			r.programs[idx] = c
			continue
		}
		r.nextSeq++
		c.Seq = r.nextSeq
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		r.byID[c.Id] = len(r.programs)
		r.programs = append(r.programs, c)
	}
	return nil
}

func (r *ProgramRepository) FindByID(ctx context.Context, id string) (*entity.Program, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return r.programs[idx].Clone(), nil
}

func (r *ProgramRepository) FindCandidates(ctx context.Context, filter entity.ProgramFilter) ([]*entity.Program, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.Program, 0, len(r.programs))
	for _, p := range r.programs {
		if filter.Matches(p) {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

// SearchSimilar mirrors the ranked store query: rows with a different
// dimension are left out, ties keep insertion order.
func (r *ProgramRepository) SearchSimilar(ctx context.Context, query []float32, filter entity.ProgramFilter, limit int) ([]*contract.ScoredProgram, error) {
	if limit <= 0 || len(query) == 0 {
		return []*contract.ScoredProgram{}, nil
	}
	candidates, err := r.FindCandidates(ctx, filter)
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredProgram, 0, len(candidates))
	for _, p := range candidates {
		if vector.Validate(p.Embedding, len(query)) != nil {
			continue
		}
		scored = append(scored, &contract.ScoredProgram{
			Program:    p,
			Similarity: vector.Cosine(query, p.Embedding),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func (r *ProgramRepository) Count(ctx context.Context, filter entity.ProgramFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, p := range r.programs {
		if filter.Matches(p) {
			n++
		}
	}
	return n, nil
}
