package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/textsplitter"

	"pdf-rag/internal/models"
)

var _ documentloaders.Loader = (*FileLoader)(nil)

// FileLoader loads a document from disk as an ordered sequence of page
// documents. The format is picked from the file extension.
type FileLoader struct {
	path string
}

func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

// Load returns one document per page (PDF), slide (PPTX) or sheet (XLSX);
// single-page formats yield one document. Every failure is a *models.LoadError.
func (l *FileLoader) Load(_ context.Context) (docs []schema.Document, err error) {
	if _, err := os.Stat(l.path); err != nil {
		return nil, &models.LoadError{Path: l.path, Err: err}
	}

	ext := strings.ToLower(filepath.Ext(l.path))
	switch ext {
	case ".pdf":
		docs, err = parsePDF(l.path)
	case ".docx":
		docs, err = parseDOCX(l.path)
	case ".pptx":
		docs, err = parsePPTX(l.path)
	case ".xlsx", ".xlsm":
		docs, err = parseXLSX(l.path)
	case ".md", ".markdown":
		docs, err = parseMarkdown(l.path)
	case ".txt":
		docs, err = parseText(l.path)
	default:
		err = fmt.Errorf("%w: %s", models.ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, &models.LoadError{Path: l.path, Err: err}
	}

	log.Debug().Str("path", l.path).Int("pages", len(docs)).Msg("Loaded document")
	return docs, nil
}

func (l *FileLoader) LoadAndSplit(ctx context.Context, splitter textsplitter.TextSplitter) ([]schema.Document, error) {
	docs, err := l.Load(ctx)
	if err != nil {
		return nil, err
	}
	return SplitDocuments(splitter, docs)
}

func pageMetadata(source string, page, total int) map[string]any {
	return map[string]any{
		models.MetaSource:     source,
		models.MetaPage:       page,
		models.MetaTotalPages: total,
	}
}
