package main

import (
	"context"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/vectorstores"

	"pdf-rag/internal/chromemdb"
	"pdf-rag/internal/config"
	"pdf-rag/internal/db"
	"pdf-rag/internal/embedding"
	"pdf-rag/internal/provider"
)

// vectorStore is what both backends offer the commands.
type vectorStore interface {
	vectorstores.VectorStore
	DeleteCollection(ctx context.Context) error
}

// newEmbedder resolves the provider now and builds the client on first use.
func (c *cli) newEmbedder(explicit string) (embeddings.Embedder, error) {
	settings, err := provider.ResolveEmbedding(c.cfg.Embedding, explicit)
	if err != nil {
		return nil, err
	}
	return embedding.NewLazy(func(ctx context.Context) (embeddings.Embedder, error) {
		return embedding.NewEmbedder(ctx, settings, c.cfg)
	}), nil
}

// openStore opens the configured backend. The returned close function is
// never nil.
func (c *cli) openStore(embedder embeddings.Embedder) (vectorStore, func() error, error) {
	vs := c.cfg.VectorStore
	switch vs.Backend {
	case config.BackendChromem:
		m, err := chromemdb.NewVectorDBManager(vs.ChromemPath, vs.Collection, false, vs.ChromemCompress, embedder)
		if err != nil {
			return nil, nil, err
		}
		return m, func() error { return nil }, nil
	default:
		sqldb, err := db.ConnectDB(&c.cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		store := db.NewStore(db.NewDB(sqldb, c.cfg.Database.Debug), embedder, vs.Collection)
		return store, store.Close, nil
	}
}
