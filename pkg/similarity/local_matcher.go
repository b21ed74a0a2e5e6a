package similarity

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"edupath-be/internal/entity"
	"edupath-be/internal/pkg/apperror"
	"edupath-be/internal/pkg/logger"
	"edupath-be/internal/repository/contract"
	"edupath-be/pkg/vector"

	"github.com/panjf2000/ants/v2"
)

const defaultBatchSize = 256

// LocalMatcher loads candidates from the catalog and scores them in process.
type LocalMatcher struct {
	repo      contract.ProgramRepository
	logger    logger.ILogger
	pool      *ants.Pool
	workers   int
	batchSize int
}

type Option func(*LocalMatcher)

// WithWorkers sets the pool size. Values < 1 fall back to NumCPU.
func WithWorkers(n int) Option {
	return func(m *LocalMatcher) {
		if n > 0 {
			m.workers = n
		}
	}
}

// WithBatchSize sets how many candidates one pool task scores.
func WithBatchSize(n int) Option {
	return func(m *LocalMatcher) {
		if n > 0 {
			m.batchSize = n
		}
	}
}

func NewLocalMatcher(repo contract.ProgramRepository, log logger.ILogger, opts ...Option) (*LocalMatcher, error) {
	m := &LocalMatcher{
		repo:      repo,
		logger:    log,
		workers:   runtime.NumCPU(),
		batchSize: defaultBatchSize,
	}
	for _, opt := range opts {
		opt(m)
	}

	pool, err := ants.NewPool(m.workers)
	if err != nil {
		return nil, err
	}
	m.pool = pool
	return m, nil
}

func (m *LocalMatcher) Release() {
	m.pool.Release()
}

func (m *LocalMatcher) Search(ctx context.Context, query []float32, filter entity.ProgramFilter, limit int) (Result, error) {
	if limit <= 0 {
		return Result{Matches: []contract.ScoredProgram{}}, nil
	}
	if len(query) == 0 {
		return Result{}, fmt.Errorf("%w: empty query vector", apperror.ErrInvalidInput)
	}

	candidates, err := m.repo.FindCandidates(ctx, filter)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", apperror.ErrCatalogUnavailable, err)
	}

	scores := make([]float64, len(candidates))
	invalid := make([]error, len(candidates))

	var wg sync.WaitGroup
	for start := 0; start < len(candidates); start += m.batchSize {
		end := min(start+m.batchSize, len(candidates))
		wg.Add(1)
		task := func() {
			defer wg.Done()
			for i := start; i < end; i++ {
				if err := vector.Validate(candidates[i].Embedding, len(query)); err != nil {
					invalid[i] = err
					continue
				}
				scores[i] = vector.Cosine(query, candidates[i].Embedding)
			}
		}
		if err := m.pool.Submit(task); err != nil {
			wg.Done()
			wg.Wait()
			return Result{}, err
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	result := Result{Matches: make([]contract.ScoredProgram, 0, len(candidates))}
	for i, p := range candidates {
		if invalid[i] != nil {
			result.Skipped = append(result.Skipped, SkippedCandidate{ProgramId: p.Id, Reason: invalid[i].Error()})
			m.logger.Warn("SIMILARITY", "Skipping malformed candidate", map[string]interface{}{
				"program_id": p.Id,
				"error":      fmt.Errorf("%w: %v", apperror.ErrMalformedCandidate, invalid[i]).Error(),
			})
			continue
		}
		result.Matches = append(result.Matches, contract.ScoredProgram{Program: p, Similarity: scores[i]})
	}

	// Candidates arrive in insertion order, so a stable sort keeps that order on ties.
	sort.SliceStable(result.Matches, func(i, j int) bool {
		return result.Matches[i].Similarity > result.Matches[j].Similarity
	})
	if len(result.Matches) > limit {
		result.Matches = result.Matches[:limit]
	}
	return result, nil
}
