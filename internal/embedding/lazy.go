package embedding

import (
	"context"
	"sync"

	"github.com/tmc/langchaingo/embeddings"
)

var _ embeddings.Embedder = (*lazyEmbedder)(nil)

// lazyEmbedder builds its embedder on first use, so credentials are only
// needed once there is something to embed. A failed build is retried on the
// next call.
type lazyEmbedder struct {
	build func(ctx context.Context) (embeddings.Embedder, error)

	mu       sync.Mutex
	embedder embeddings.Embedder
}

func NewLazy(build func(ctx context.Context) (embeddings.Embedder, error)) embeddings.Embedder {
	return &lazyEmbedder{build: build}
}

func (l *lazyEmbedder) get(ctx context.Context) (embeddings.Embedder, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.embedder == nil {
		e, err := l.build(ctx)
		if err != nil {
			return nil, err
		}
		l.embedder = e
	}
	return l.embedder, nil
}

func (l *lazyEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	e, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return e.EmbedDocuments(ctx, texts)
}

func (l *lazyEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	e, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return e.EmbedQuery(ctx, text)
}
