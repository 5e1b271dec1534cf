package embedding

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"pdf-rag/internal/config"
	"pdf-rag/internal/helper"
	"pdf-rag/internal/provider"
)

// NewEmbedder creates the embedder for the resolved provider. Requests are
// batched by cfg.Embedding.BatchSize and retried per cfg.Retry.
func NewEmbedder(ctx context.Context, settings provider.EmbeddingSettings, cfg *config.Config) (embeddings.Embedder, error) {
	log.Debug().
		Str("provider", string(settings.Provider)).
		Str("model", settings.Model).
		Msg("Creating embedder")

	switch settings.Provider {
	case provider.OpenAI:
		opts := []openai.Option{openai.WithEmbeddingModel(settings.Model)}
		if cfg.Credentials.OpenAIAPIKey != "" {
			opts = append(opts, openai.WithToken(cfg.Credentials.OpenAIAPIKey))
		}
		if cfg.Credentials.OpenAIBaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.Credentials.OpenAIBaseURL))
		}
		llm, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("initialize openai embeddings: %w", err)
		}
		return newEmbedder(llm, cfg.Embedding.BatchSize, cfg.Retry)
	case provider.Google:
		docs, err := newGeminiClient(ctx, cfg.Credentials.GoogleAPIKey, settings.Model, taskRetrievalDocument)
		if err != nil {
			return nil, fmt.Errorf("initialize google embeddings: %w", err)
		}
		return newTaskEmbedder(docs, docs.withTaskType(taskRetrievalQuery), cfg.Embedding.BatchSize, cfg.Retry)
	default:
		return nil, fmt.Errorf("no embedding client for provider %q", settings.Provider)
	}
}

// taskEmbedder sends documents and queries to separate clients, for
// services that embed them differently.
type taskEmbedder struct {
	documents embeddings.Embedder
	query     embeddings.Embedder
}

func newTaskEmbedder(documents, query embeddings.EmbedderClient, batchSize int, retryCfg config.RetryConfig) (*taskEmbedder, error) {
	docEmbedder, err := newEmbedder(documents, batchSize, retryCfg)
	if err != nil {
		return nil, err
	}
	queryEmbedder, err := newEmbedder(query, batchSize, retryCfg)
	if err != nil {
		return nil, err
	}
	return &taskEmbedder{documents: docEmbedder, query: queryEmbedder}, nil
}

func (t *taskEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return t.documents.EmbedDocuments(ctx, texts)
}

func (t *taskEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return t.query.EmbedQuery(ctx, text)
}

func newEmbedder(client embeddings.EmbedderClient, batchSize int, retryCfg config.RetryConfig) (*embeddings.EmbedderImpl, error) {
	opts := []embeddings.Option{embeddings.WithStripNewLines(false)}
	if batchSize > 0 {
		opts = append(opts, embeddings.WithBatchSize(batchSize))
	}
	embedder, err := embeddings.NewEmbedder(&retryClient{next: client, cfg: retryCfg}, opts...)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}
	return embedder, nil
}

type retryClient struct {
	next embeddings.EmbedderClient
	cfg  config.RetryConfig
}

func (r *retryClient) CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	var vectors [][]float32
	err := helper.Retry(ctx, r.cfg, "embed", func() error {
		var err error
		vectors, err = r.next.CreateEmbedding(ctx, texts)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedding service returned %d vectors for %d texts", len(vectors), len(texts))
	}
	return vectors, nil
}
