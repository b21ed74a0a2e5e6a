package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Keys      APIKeys
	Ai        AIConfig
	Matching  MatchingConfig
	Storage   StorageConfig
	Templates TemplateConfig
	Telemetry TelemetryConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	EventLogFilePath   string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	EventBus           string // "nats", "watermill" or "none"
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	OpenAI       string
	GoogleGemini string
	Jina         string
}

type AIConfig struct {
	EmbeddingProvider string // "openai", "ollama", "gemini" or "jina"
	OpenAIModel       string
	OpenAIBaseURL     string
	OllamaBaseURL     string
	OllamaModel       string
}

type MatchingConfig struct {
	Backend          string // "local" or "native"
	Workers          int
	BatchSize        int
	TargetCount      int
	ReachCount       int
	ReachRankCeiling int
	DeduplicateTiers bool
}

type StorageConfig struct {
	CatalogStore    string // "postgres" or "memory"
	CatalogSeedFile string
	SessionStore    string // "postgres", "redis" or "memory"
	SessionTTL      time.Duration
}

type TemplateConfig struct {
	TimelineTemplate     string // built-in set name: "default" or "submission"
	TimelineTemplateFile string
	EnrichmentFile       string
}

type TelemetryConfig struct {
	Enabled      bool
	OTLPEndpoint string
	ServiceName  string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			EventLogFilePath:   getEnv("EVENT_LOG_FILE_PATH", "logs/events.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			EventBus:           strings.ToLower(getEnv("EVENT_BUS", "watermill")),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			OpenAI:       getEnv("OPENAI_API_KEY", ""),
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			Jina:         getEnv("JINA_API_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "openai"),
			OpenAIModel:       getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
			OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", ""),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
		},
		Matching: MatchingConfig{
			Backend:          strings.ToLower(getEnv("MATCHER_BACKEND", "native")),
			Workers:          getEnvAsInt("LOCAL_MATCHER_WORKERS", 0),
			BatchSize:        getEnvAsInt("LOCAL_MATCHER_BATCH_SIZE", 256),
			TargetCount:      getEnvAsInt("TARGET_COUNT", 3),
			ReachCount:       getEnvAsInt("REACH_COUNT", 2),
			ReachRankCeiling: getEnvAsInt("REACH_RANK_CEILING", 20),
			DeduplicateTiers: getEnvAsBool("DEDUPLICATE_TIERS", false),
		},
		Storage: StorageConfig{
			CatalogStore:    strings.ToLower(getEnv("CATALOG_STORE", "postgres")),
			CatalogSeedFile: getEnv("CATALOG_SEED_FILE", ""),
			SessionStore:    strings.ToLower(getEnv("SESSION_STORE", "postgres")),
			SessionTTL:      getEnvAsDuration("SESSION_TTL", 0),
		},
		Templates: TemplateConfig{
			TimelineTemplate:     getEnv("TIMELINE_TEMPLATE", "default"),
			TimelineTemplateFile: getEnv("TIMELINE_TEMPLATE_FILE", ""),
			EnrichmentFile:       getEnv("ENRICHMENT_TEMPLATE_FILE", ""),
		},
		Telemetry: TelemetryConfig{
			Enabled:      getEnvAsBool("OTEL_ENABLED", false),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "edupath-backend"),
		},
	}
}

// NeedsDatabase reports whether any store is backed by Postgres.
func (c *Config) NeedsDatabase() bool {
	return c.Storage.CatalogStore == "postgres" || c.Storage.SessionStore == "postgres"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
