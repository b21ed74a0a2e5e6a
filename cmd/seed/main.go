package main

import (
	"context"
	"flag"
	"log"

	"edupath-be/internal/config"
	"edupath-be/internal/pkg/logger"
	"edupath-be/internal/repository/unitofwork"
	"edupath-be/pkg/catalog"
	"edupath-be/pkg/database"
	embeddingFactory "edupath-be/pkg/embedding/factory"
)

func main() {
	file := flag.String("file", "data/programs.json", "JSON array of catalog programs")
	flag.Parse()

	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

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

	programs, err := catalog.LoadFile(*file)
	if err != nil {
		log.Fatal("Error: ", err)
	}
	log.Printf("Loaded %d programs from %s", len(programs), *file)

	ctx := context.Background()
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, false)
	defer sysLogger.Sync()

	seeder := catalog.NewSeeder(embedder, sysLogger)

	// Embed outside the transaction; provider calls can be slow.
	if _, err := seeder.Prepare(ctx, programs); err != nil {
		log.Fatal("Error: ", err)
	}

	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		log.Fatal("Error: Failed to begin transaction:", err)
	}
	report, err := seeder.Seed(ctx, uow.ProgramRepository(), programs)
	if err != nil {
		_ = uow.Rollback()
		log.Fatal("Error: Seeding failed:", err)
	}
	if err := uow.Commit(); err != nil {
		log.Fatal("Error: Commit failed:", err)
	}

	log.Printf("✅ Catalog seeding completed: %d stored (%d embedded, %d reused)", report.Stored, report.Embedded, report.Reused)
}
