package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"edupath-be/internal/config"
	"edupath-be/internal/entity"
	"edupath-be/internal/pkg/logger"
	"edupath-be/internal/repository/implementation"
	"edupath-be/pkg/database"
	embeddingFactory "edupath-be/pkg/embedding/factory"
	"edupath-be/pkg/recommend"
	"edupath-be/pkg/similarity"
)

// Ranks catalog programs for a free-text profile, for checking catalog and embedder quality.
func main() {
	profile := flag.String("profile", "", "applicant profile text")
	region := flag.String("region", "", "only programs in this region")
	maxRank := flag.Int("max-rank", 0, "only programs ranked at or above this position")
	top := flag.Int("top", 10, "number of programs to print")
	flag.Parse()

	if strings.TrimSpace(*profile) == "" {
		log.Fatal("Error: -profile is required")
	}

	cfg := config.Load()
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	embedder, err := embeddingFactory.NewEmbedder(embeddingFactory.Settings{
		Provider:      cfg.Ai.EmbeddingProvider,
		OpenAIKey:     cfg.Keys.OpenAI,
		OpenAIModel:   cfg.Ai.OpenAIModel,
		OpenAIBaseURL: cfg.Ai.OpenAIBaseURL,
		OllamaBaseURL: cfg.Ai.OllamaBaseURL,
		OllamaModel:   cfg.Ai.OllamaModel,
		GeminiKey:     cfg.Keys.GoogleGemini,
		JinaKey:       cfg.Keys.Jina,
	})
	if err != nil {
		log.Fatal("Error: Failed to create embedder:", err)
	}

	matcher, release, err := similarity.New(implementation.NewProgramRepository(db), logger.NewNopLogger(), similarity.Settings{
		Backend:   cfg.Matching.Backend,
		Workers:   cfg.Matching.Workers,
		BatchSize: cfg.Matching.BatchSize,
	})
	if err != nil {
		log.Fatal("Error: ", err)
	}
	defer release()

	ctx := context.Background()
	vec, err := embedder.Embed(ctx, *profile)
	if err != nil {
		log.Fatal("Error: Failed to embed profile:", err)
	}

	result, err := matcher.Search(ctx, vec, entity.ProgramFilter{Region: *region, MaxRank: *maxRank}, *top)
	if err != nil {
		log.Fatal("Error: ", err)
	}

	fmt.Printf("%-4s %-6s %-8s %-40s %s\n", "#", "RANK", "SCORE", "SCHOOL", "PROGRAM")
	for i, m := range result.Matches {
		fmt.Printf("%-4d %-6d %-8d %-40s %s (%.4f)\n",
			i+1, m.Program.Rank, recommend.TargetScore(m.Similarity), m.Program.SchoolName, m.Program.ProgramName, m.Similarity)
	}
	if len(result.Skipped) > 0 {
		fmt.Printf("\n%d malformed candidates skipped\n", len(result.Skipped))
	}
}
