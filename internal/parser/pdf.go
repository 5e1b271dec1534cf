package parser

import (
	"fmt"

	"github.com/ledongthuc/pdf"
	"github.com/tmc/langchaingo/schema"
)

// parsePDF reads the plain text of every page. Page metadata is 0-based.
func parsePDF(path string) (docs []schema.Document, err error) {
	// the pdf reader panics on some malformed streams
	defer func() {
		if r := recover(); r != nil {
			docs, err = nil, fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	numPages := reader.NumPage()
	docs = make([]schema.Document, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		fonts := make(map[string]*pdf.Font)
		for _, name := range page.Fonts() {
			font := page.Font(name)
			fonts[name] = &font
		}

		pageText, err := page.GetPlainText(fonts)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}

		docs = append(docs, schema.Document{
			PageContent: pageText,
			Metadata:    pageMetadata(path, i-1, numPages),
		})
	}
	return docs, nil
}
