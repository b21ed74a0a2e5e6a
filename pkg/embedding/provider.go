package embedding

import (
	"context"
	"errors"

	"edupath-be/pkg/vector"
)

// ErrEmptyEmbedding is returned when a provider answers without a vector.
var ErrEmptyEmbedding = errors.New("provider returned an empty embedding")

// Embedder turns text into a fixed-dimension vector. Implementations do not retry.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Normalized wraps an Embedder so every vector it returns has unit length.
// Providers that do not normalise (Ollama) need this for cosine distance in pgvector.
type Normalized struct {
	Embedder
}

func (n Normalized) Embed(ctx context.Context, text string) ([]float32, error) {
	v, err := n.Embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	return vector.Normalize(v), nil
}
