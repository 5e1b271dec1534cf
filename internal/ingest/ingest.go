package ingest

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/textsplitter"
	"github.com/tmc/langchaingo/vectorstores"

	"pdf-rag/internal/models"
	"pdf-rag/internal/parser"
)

// Pipeline loads a document, splits it into overlapping chunks and writes the
// chunks with their embeddings to a vector store.
type Pipeline struct {
	store      vectorstores.VectorStore
	splitter   textsplitter.TextSplitter
	collection string
	reset      func(ctx context.Context) error
}

type Option func(*Pipeline)

// WithReset makes Run call reset once the document has produced chunks and
// before they are stored. A document that fails to load or split leaves the
// collection untouched.
func WithReset(reset func(ctx context.Context) error) Option {
	return func(p *Pipeline) {
		p.reset = reset
	}
}

func NewPipeline(store vectorstores.VectorStore, splitter textsplitter.TextSplitter, collection string, opts ...Option) *Pipeline {
	p := &Pipeline{store: store, splitter: splitter, collection: collection}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run ingests the document at path. A document that yields no chunks is an
// *models.EmptyIngestionError and nothing is written.
func (p *Pipeline) Run(ctx context.Context, path string) (*models.IngestionSummary, error) {
	pages, err := parser.NewFileLoader(path).Load(ctx)
	if err != nil {
		return nil, err
	}

	chunks, err := parser.SplitDocuments(p.splitter, pages)
	if err != nil {
		return nil, fmt.Errorf("split %s: %w", path, err)
	}
	if len(chunks) == 0 {
		return nil, &models.EmptyIngestionError{Path: path}
	}
	log.Debug().Int("pages", len(pages)).Int("chunks", len(chunks)).Msg("Split document")

	if p.reset != nil {
		if err := p.reset(ctx); err != nil {
			return nil, fmt.Errorf("reset collection %s: %w", p.collection, err)
		}
		log.Info().Str("collection", p.collection).Msg("Collection reset")
	}

	ids, err := p.store.AddDocuments(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("store chunks: %w", err)
	}

	summary := &models.IngestionSummary{
		Source:     path,
		Pages:      len(pages),
		Chunks:     len(chunks),
		Collection: p.collection,
		IDs:        ids,
	}
	log.Info().
		Str("source", path).
		Str("collection", p.collection).
		Int("chunks", len(chunks)).
		Msg("Ingestion completed successfully")
	return summary, nil
}
