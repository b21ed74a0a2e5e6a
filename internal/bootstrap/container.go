package bootstrap

import (
	"context"
	"fmt"
	"log"

	"edupath-be/internal/config"
	"edupath-be/internal/controller"
	"edupath-be/internal/pkg/logger"
	"edupath-be/internal/repository/contract"
	"edupath-be/internal/repository/implementation"
	"edupath-be/internal/repository/memory"
	"edupath-be/internal/repository/redisstore"
	"edupath-be/internal/service"
	"edupath-be/pkg/catalog"
	"edupath-be/pkg/embedding"
	embeddingFactory "edupath-be/pkg/embedding/factory"
	"edupath-be/pkg/events"
	pktNats "edupath-be/pkg/nats"
	"edupath-be/pkg/recommend"
	"edupath-be/pkg/similarity"
	"edupath-be/pkg/timeline"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AdvisingController controller.IAdvisingController

	// Background services, nil when the event bus is disabled
	EventAuditService service.IEventAuditService

	Logger logger.ILogger

	closers []func()
}

// NewContainer wires the application. db may be nil when no store uses Postgres.
func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	c := &Container{}

	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	c.Logger = sysLogger
	c.onClose(func() { _ = sysLogger.Sync() })

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
		return nil, err
	}
	log.Printf("[INFO] Using Embedding Provider: %s", cfg.Ai.EmbeddingProvider)

	// 2. Stores
	programRepo, err := newProgramRepository(db, cfg, embedder, sysLogger)
	if err != nil {
		c.Close()
		return nil, err
	}
	sessionRepo, err := c.newSessionRepository(db, cfg)
	if err != nil {
		c.Close()
		return nil, err
	}

	// 3. Recommendation pipeline
	matcher, release, err := similarity.New(programRepo, sysLogger, similarity.Settings{
		Backend:   cfg.Matching.Backend,
		Workers:   cfg.Matching.Workers,
		BatchSize: cfg.Matching.BatchSize,
	})
	if err != nil {
		c.Close()
		return nil, err
	}
	c.onClose(release)
	log.Printf("[INFO] Using Matcher Backend: %s", cfg.Matching.Backend)

	table := recommend.DefaultEnrichmentTable()
	if cfg.Templates.EnrichmentFile != "" {
		if table, err = recommend.LoadEnrichmentTable(cfg.Templates.EnrichmentFile); err != nil {
			c.Close()
			return nil, err
		}
	}
	recommender := recommend.NewRecommender(matcher, recommend.NewTableEnricher(table), recommend.Options{
		TargetCount:      cfg.Matching.TargetCount,
		ReachCount:       cfg.Matching.ReachCount,
		ReachRankCeiling: cfg.Matching.ReachRankCeiling,
		Deduplicate:      cfg.Matching.DeduplicateTiers,
	})

	templates, err := timeline.ResolveTemplateSet(cfg.Templates.TimelineTemplate, cfg.Templates.TimelineTemplateFile)
	if err != nil {
		c.Close()
		return nil, err
	}
	generator := timeline.NewGenerator(templates)

	// 4. Event bus
	publisher, subscriber := c.newEventBus(cfg)
	if subscriber != nil {
		eventLogger := logger.NewIsolatedLogger(cfg.App.EventLogFilePath)
		c.onClose(func() { _ = eventLogger.Sync() })
		c.EventAuditService = service.NewEventAuditService(subscriber, eventLogger)
	}

	// 5. Services and controllers
	advisingService := service.NewAdvisingService(sessionRepo, embedder, recommender, generator, publisher, sysLogger)
	c.AdvisingController = controller.NewAdvisingController(advisingService)

	return c, nil
}

func (c *Container) onClose(fn func()) {
	c.closers = append(c.closers, fn)
}

// Close releases pools and connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

func newProgramRepository(db *gorm.DB, cfg *config.Config, embedder embedding.Embedder, log logger.ILogger) (contract.ProgramRepository, error) {
	var repo contract.ProgramRepository
	switch cfg.Storage.CatalogStore {
	case "memory":
		repo = memory.NewProgramRepository()
	case "", "postgres":
		if db == nil {
			return nil, fmt.Errorf("catalog store postgres requires DB_CONNECTION_STRING")
		}
		repo = implementation.NewProgramRepository(db)
	default:
		return nil, fmt.Errorf("unsupported catalog store: %s", cfg.Storage.CatalogStore)
	}

	if cfg.Storage.CatalogSeedFile != "" {
		programs, err := catalog.LoadFile(cfg.Storage.CatalogSeedFile)
		if err != nil {
			return nil, err
		}
		if _, err := catalog.NewSeeder(embedder, log).Seed(context.Background(), repo, programs); err != nil {
			return nil, err
		}
	}
	return repo, nil
}

func (c *Container) newSessionRepository(db *gorm.DB, cfg *config.Config) (contract.AdvisingSessionRepository, error) {
	switch cfg.Storage.SessionStore {
	case "memory":
		return memory.NewSessionRepository(cfg.Storage.SessionTTL), nil
	case "redis":
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb := redis.NewClient(opt)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.onClose(func() { _ = rdb.Close() })
		return redisstore.NewSessionRepository(rdb, cfg.Storage.SessionTTL), nil
	case "", "postgres":
		if db == nil {
			return nil, fmt.Errorf("session store postgres requires DB_CONNECTION_STRING")
		}
		return implementation.NewAdvisingSessionRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported session store: %s", cfg.Storage.SessionStore)
	}
}

// newEventBus falls back to no events when NATS is unreachable.
func (c *Container) newEventBus(cfg *config.Config) (events.Publisher, events.Subscriber) {
	switch cfg.App.EventBus {
	case "nats":
		pub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
			return events.NopPublisher{}, nil
		}
		c.onClose(pub.Close)

		sub, err := pktNats.NewSubscriber(cfg.App.NatsURL, pktNats.SubjectPrefix+">", "edupath-event-audit")
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
			return pub, nil
		}
		c.onClose(sub.Close)
		return pub, sub
	case "watermill":
		pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
		c.onClose(func() { _ = pubSub.Close() })
		bus := events.NewChannelBus(pubSub, events.DefaultTopic)
		return bus, bus
	default:
		return events.NopPublisher{}, nil
	}
}
