package catalog

import (
	"context"
	"fmt"

	"edupath-be/internal/entity"
	"edupath-be/internal/pkg/logger"
	"edupath-be/internal/repository/contract"
	"edupath-be/pkg/embedding"
	"edupath-be/pkg/vector"
)

const moduleCatalog = "CATALOG"

type SeedReport struct {
	Embedded int
	Reused   int
	Stored   int
}

// Seeder embeds catalog descriptions and stores the programs.
type Seeder struct {
	embedder embedding.Embedder
	logger   logger.ILogger
}

func NewSeeder(embedder embedding.Embedder, log logger.ILogger) *Seeder {
	return &Seeder{embedder: embedder, logger: log}
}

// Prepare fills in missing embeddings. Programs that already carry a vector are left alone.
func (s *Seeder) Prepare(ctx context.Context, programs []*entity.Program) (SeedReport, error) {
	var report SeedReport
	for _, p := range programs {
		if len(p.Embedding) > 0 {
			report.Reused++
			continue
		}
		text := p.DescriptionText
		if text == "" {
			text = fmt.Sprintf("%s %s %s", p.SchoolName, p.ProgramName, p.Field)
		}
		vec, err := s.embedder.Embed(ctx, text)
		if err != nil {
			return report, fmt.Errorf("embedding program %s: %w", p.Id, err)
		}
		if err := vector.Validate(vec, len(vec)); err != nil {
			return report, fmt.Errorf("embedding program %s: %w", p.Id, err)
		}
		p.Embedding = vec
		report.Embedded++
	}
	return report, nil
}

// Seed prepares programs and upserts them into repo in one call.
func (s *Seeder) Seed(ctx context.Context, repo contract.ProgramRepository, programs []*entity.Program) (SeedReport, error) {
	report, err := s.Prepare(ctx, programs)
	if err != nil {
		return report, err
	}
	if err := repo.UpsertBulk(ctx, programs); err != nil {
		return report, err
	}
	report.Stored = len(programs)

	s.logger.Info(moduleCatalog, "Catalog seeded", map[string]interface{}{
		"embedded": report.Embedded,
		"reused":   report.Reused,
		"stored":   report.Stored,
	})
	return report, nil
}
