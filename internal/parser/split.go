package parser

import (
	"strings"

	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/textsplitter"
)

// NewSplitter returns a recursive character splitter (paragraph, line, word,
// character boundaries) with the given window size and overlap.
func NewSplitter(chunkSize, chunkOverlap int) textsplitter.TextSplitter {
	return textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(chunkOverlap),
	)
}

// SplitDocuments splits each page and carries its metadata onto the chunks.
// Whitespace-only chunks are dropped.
func SplitDocuments(splitter textsplitter.TextSplitter, docs []schema.Document) ([]schema.Document, error) {
	chunks, err := textsplitter.SplitDocuments(splitter, docs)
	if err != nil {
		return nil, err
	}

	out := chunks[:0]
	for _, c := range chunks {
		if strings.TrimSpace(c.PageContent) == "" {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
