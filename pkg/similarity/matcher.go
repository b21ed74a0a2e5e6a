package similarity

import (
	"context"
	"fmt"
	"strings"

	"edupath-be/internal/entity"
	"edupath-be/internal/pkg/logger"
	"edupath-be/internal/repository/contract"
)

const (
	BackendLocal  = "local"
	BackendNative = "native"
)

// SkippedCandidate is a catalog row that could not be compared with the query.
type SkippedCandidate struct {
	ProgramId string
	Reason    string
}

type Result struct {
	// Matches are ordered by similarity descending, insertion order on ties.
	Matches []contract.ScoredProgram
	Skipped []SkippedCandidate
}

// Matcher ranks catalog programs by cosine similarity to a query vector.
type Matcher interface {
	Search(ctx context.Context, query []float32, filter entity.ProgramFilter, limit int) (Result, error)
}

type Settings struct {
	Backend   string
	Workers   int
	BatchSize int
}

// New builds the matcher selected by s.Backend. The returned release func frees worker pools.
func New(repo contract.ProgramRepository, log logger.ILogger, s Settings) (Matcher, func(), error) {
	switch strings.ToLower(s.Backend) {
	case "", BackendLocal:
		m, err := NewLocalMatcher(repo, log, WithWorkers(s.Workers), WithBatchSize(s.BatchSize))
		if err != nil {
			return nil, nil, err
		}
		return m, m.Release, nil
	case BackendNative:
		return NewNativeMatcher(repo), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported matcher backend: %s", s.Backend)
	}
}
