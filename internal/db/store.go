package db

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/pgvector/pgvector-go"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"
	"github.com/uptrace/bun"

	"pdf-rag/internal/helper"
)

var _ vectorstores.VectorStore = (*Store)(nil)

var ErrEmbeddingCount = errors.New("number of embeddings does not match number of documents")

// Store is a vectorstores.VectorStore over a single named collection. The
// schema and collection row are created on first use.
type Store struct {
	db         *bun.DB
	embedder   embeddings.Embedder
	collection string

	mu     sync.Mutex
	collID string
}

func NewStore(db *bun.DB, embedder embeddings.Embedder, collection string) *Store {
	return &Store{db: db, embedder: embedder, collection: collection}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collID != "" {
		return nil
	}

	if err := InitDB(ctx, s.db); err != nil {
		return err
	}
	id, err := helper.GenerateUUID()
	if err != nil {
		return err
	}
	coll, err := GetOrCreateCollection(ctx, s.db, s.collection, id)
	if err != nil {
		return err
	}
	s.collID = coll.UUID
	log.Debug().Str("collection", coll.Name).Str("uuid", coll.UUID).Msg("Using collection")
	return nil
}

// DeleteCollection removes the collection row; its embeddings go with it
// through the foreign key cascade.
func (s *Store) DeleteCollection(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := InitDB(ctx, s.db); err != nil {
		return err
	}
	_, err := s.db.NewDelete().Model((*Collection)(nil)).Where("name = ?", s.collection).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete collection %s: %w", s.collection, err)
	}
	s.collID = ""
	return nil
}

// AddDocuments embeds docs and stores them in one bulk insert.
func (s *Store) AddDocuments(ctx context.Context, docs []schema.Document, options ...vectorstores.Option) ([]string, error) {
	opts := s.options(options)
	if err := s.init(ctx); err != nil {
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
		return nil, ErrEmbeddingCount
	}

	ids, err := helper.GenerateUUIDs(len(docs))
	if err != nil {
		return nil, err
	}
	records := make([]Embedding, len(docs))
	for i, doc := range docs {
		metadata := doc.Metadata
		if metadata == nil {
			metadata = map[string]any{}
		}
		records[i] = Embedding{
			ID:           ids[i],
			CollectionID: s.collID,
			Embedding:    pgvector.NewVector(vectors[i]),
			Document:     doc.PageContent,
			CMetadata:    metadata,
		}
	}

	if err := StoreEmbeddings(ctx, s.db, records); err != nil {
		return nil, fmt.Errorf("store embeddings: %w", err)
	}
	return ids, nil
}

// SimilaritySearch returns up to numDocuments documents, most similar first.
// Score is 1 - cosine distance.
func (s *Store) SimilaritySearch(ctx context.Context, query string, numDocuments int, options ...vectorstores.Option) ([]schema.Document, error) {
	opts := s.options(options)
	if err := s.init(ctx); err != nil {
		return nil, err
	}

	vector, err := opts.Embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	rows, err := SearchEmbeddings(ctx, s.db, s.collID, vector, numDocuments)
	if err != nil {
		return nil, fmt.Errorf("search embeddings: %w", err)
	}

	return toDocuments(rows, opts.ScoreThreshold), nil
}

// toDocuments keeps the distance order and turns cosine distance into a
// similarity score, dropping rows below threshold when it is set.
func toDocuments(rows []Embedding, threshold float32) []schema.Document {
	docs := make([]schema.Document, 0, len(rows))
	for _, row := range rows {
		score := float32(1 - row.Distance)
		if threshold > 0 && score < threshold {
			continue
		}
		docs = append(docs, schema.Document{
			PageContent: row.Document,
			Metadata:    row.CMetadata,
			Score:       score,
		})
	}
	return docs
}

func (s *Store) options(options []vectorstores.Option) vectorstores.Options {
	opts := vectorstores.Options{}
	for _, opt := range options {
		opt(&opts)
	}
	if opts.Embedder == nil {
		opts.Embedder = s.embedder
	}
	return opts
}
