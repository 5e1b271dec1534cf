package chromemdb

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"

	"pdf-rag/internal/helper"
)

var _ vectorstores.VectorStore = (*VectorDBManager)(nil)

// VectorDBManager encapsulates the chromem-go database operations for one
// collection and exposes them as a vectorstores.VectorStore.
type VectorDBManager struct {
	db             *chromem.DB
	embedder       embeddings.Embedder
	collectionName string

	mu         sync.Mutex
	collection *chromem.Collection
}

// NewVectorDBManager opens a persistent database under dbPath, or an
// in-memory one when inMemory is set.
func NewVectorDBManager(dbPath, collectionName string, inMemory, compress bool, embedder embeddings.Embedder) (*VectorDBManager, error) {
	var db *chromem.DB
	if inMemory {
		db = chromem.NewDB()
	} else {
		if err := helper.CreateFolder(dbPath); err != nil {
			return nil, fmt.Errorf("failed to create database folder: %w", err)
		}
		var err error
		db, err = chromem.NewPersistentDB(dbPath, compress)
		if err != nil {
			return nil, fmt.Errorf("failed to create database: %w", err)
		}
	}

	return &VectorDBManager{
		db:             db,
		embedder:       embedder,
		collectionName: collectionName,
	}, nil
}

// GetOrCreateCollection opens the managed collection, creating it if needed.
func (m *VectorDBManager) GetOrCreateCollection() (*chromem.Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.collection != nil {
		return m.collection, nil
	}

	c, err := m.db.GetOrCreateCollection(m.collectionName, nil, m.embeddingFunc())
	if err != nil {
		return nil, fmt.Errorf("failed to create/get collection: %w", err)
	}
	m.collection = c
	return c, nil
}

func (m *VectorDBManager) embeddingFunc() chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return m.embedder.EmbedQuery(ctx, text)
	}
}

// AddDocuments embeds docs in batches and adds them with precomputed
// embeddings.
func (m *VectorDBManager) AddDocuments(ctx context.Context, docs []schema.Document, options ...vectorstores.Option) ([]string, error) {
	opts := m.options(options)
	c, err := m.GetOrCreateCollection()
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.PageContent
	}
	vectors, err := opts.Embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed documents: %w", err)
	}
	if len(vectors) != len(docs) {
		return nil, fmt.Errorf("got %d embeddings for %d documents", len(vectors), len(docs))
	}

	ids, err := helper.GenerateUUIDs(len(docs))
	if err != nil {
		return nil, err
	}
	chromemDocs := make([]chromem.Document, len(docs))
	for i, doc := range docs {
		chromemDocs[i] = chromem.Document{
			ID:        ids[i],
			Content:   doc.PageContent,
			Metadata:  toStringMetadata(doc.Metadata),
			Embedding: vectors[i],
		}
	}

	if err := c.AddDocuments(ctx, chromemDocs, runtime.NumCPU()); err != nil {
		return nil, fmt.Errorf("failed to add documents: %w", err)
	}
	return ids, nil
}

// SimilaritySearch returns up to numDocuments documents by descending cosine
// similarity.
func (m *VectorDBManager) SimilaritySearch(ctx context.Context, query string, numDocuments int, options ...vectorstores.Option) ([]schema.Document, error) {
	opts := m.options(options)
	c, err := m.GetOrCreateCollection()
	if err != nil {
		return nil, err
	}

	// chromem rejects nResults above the collection size
	n := min(numDocuments, c.Count())
	if n <= 0 {
		log.Debug().Str("collection", m.collectionName).Msg("Collection is empty")
		return nil, nil
	}

	vector, err := opts.Embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := c.QueryEmbedding(ctx, vector, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %w", err)
	}

	docs := make([]schema.Document, 0, len(results))
	for _, r := range results {
		if opts.ScoreThreshold > 0 && r.Similarity < opts.ScoreThreshold {
			continue
		}
		docs = append(docs, schema.Document{
			PageContent: r.Content,
			Metadata:    toAnyMetadata(r.Metadata),
			Score:       r.Similarity,
		})
	}
	return docs, nil
}

// DeleteCollection drops the managed collection and all its documents.
func (m *VectorDBManager) DeleteCollection(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.db.DeleteCollection(m.collectionName); err != nil {
		return fmt.Errorf("failed to drop collection: %w", err)
	}
	m.collection = nil
	return nil
}

func (m *VectorDBManager) options(options []vectorstores.Option) vectorstores.Options {
	opts := vectorstores.Options{}
	for _, opt := range options {
		opt(&opts)
	}
	if opts.Embedder == nil {
		opts.Embedder = m.embedder
	}
	return opts
}

func toStringMetadata(in map[string]any) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = fmt.Sprint(v)
	}
	return out
}

func toAnyMetadata(in map[string]string) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
