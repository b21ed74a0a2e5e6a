package factory

import (
	"fmt"
	"strings"

	"edupath-be/pkg/embedding"
	"edupath-be/pkg/embedding/jina"
)

type Settings struct {
	Provider      string
	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string
	OllamaBaseURL string
	OllamaModel   string
	GeminiKey     string
	JinaKey       string
}

// NewEmbedder picks a provider by name: openai, ollama, gemini or jina.
func NewEmbedder(s Settings) (embedding.Embedder, error) {
	switch strings.ToLower(s.Provider) {
	case "", "openai":
		return embedding.NewOpenAIProvider(s.OpenAIKey, s.OpenAIModel, s.OpenAIBaseURL), nil
	case "ollama":
		return embedding.Normalized{Embedder: embedding.NewOllamaProvider(s.OllamaBaseURL, s.OllamaModel)}, nil
	case "gemini":
		return embedding.NewGeminiProvider(s.GeminiKey), nil
	case "jina":
		return jina.NewJinaProvider(s.JinaKey), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", s.Provider)
	}
}
