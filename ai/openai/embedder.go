package openai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/planora/catalog/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Embedder implements ai.Embedder using OpenAI-compatible embedding APIs.
type Embedder struct {
	embedder   embeddings.Embedder
	dimensions int
	timeout    timeoutConfig
	logger     *slog.Logger
}

// newEmbedder is an internal constructor that returns the concrete type.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.EmbeddingHost),
		openai.WithToken(config.APIKey),
		openai.WithEmbeddingModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ai.ErrPermanent, err)
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ai.ErrPermanent, err)
	}

	return &Embedder{
		embedder:   embedder,
		dimensions: config.Dimensions,
		timeout:    timeoutConfig{perCall: config.RequestTimeout},
		logger:     slog.Default().With("component", "openai-embedder"),
	}, nil
}

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedTexts generates vector embeddings for multiple text strings in a batch.
// Every returned vector is checked against the configured dimensionality; a
// mismatch is a permanent failure.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("generating embeddings for texts", "count", len(texts))

	callCtx, cancel := e.timeout.apply(ctx)
	defer cancel()

	vectors, err := e.embedder.EmbedDocuments(callCtx, texts)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, classify(err)
	}

	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: requested %d embeddings, received %d",
			ai.ErrPermanent, len(texts), len(vectors))
	}
	for i, vector := range vectors {
		if len(vector) != e.dimensions {
			return nil, fmt.Errorf("%w: %w: expected %d, got %d for text %d",
				ai.ErrPermanent, ai.ErrDimensionMismatch, e.dimensions, len(vector), i)
		}
	}

	return vectors, nil
}
