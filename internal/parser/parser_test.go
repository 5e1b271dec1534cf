package parser

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/schema"
	"github.com/xuri/excelize/v2"

	"pdf-rag/internal/models"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// writePDF writes a minimal PDF with one Helvetica text line per page.
func writePDF(t *testing.T, pages ...string) string {
	t.Helper()

	n := len(pages)
	fontID := 3 + 2*n
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
	}
	kids := make([]string, n)
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 3+2*i)
	}
	objects = append(objects, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n))
	for i, text := range pages {
		content := fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", text)
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>", fontID, 4+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}
	objects = append(objects, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	path := filepath.Join(t.TempDir(), "document.pdf")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func TestLoadPDF(t *testing.T) {
	path := writePDF(t, "Hello page one", "Second page")

	docs, err := NewFileLoader(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Contains(t, docs[0].PageContent, "Hello page one")
	assert.Equal(t, 0, docs[0].Metadata[models.MetaPage])
	assert.Equal(t, 2, docs[0].Metadata[models.MetaTotalPages])
	assert.Equal(t, path, docs[0].Metadata[models.MetaSource])

	assert.Contains(t, docs[1].PageContent, "Second page")
	assert.Equal(t, 1, docs[1].Metadata[models.MetaPage])
	assert.Equal(t, 2, docs[1].Metadata[models.MetaTotalPages])
}

func TestLoadAndSplitPDF(t *testing.T) {
	path := writePDF(t, "Hello page one", "Second page")

	chunks, err := NewFileLoader(path).LoadAndSplit(context.Background(), NewSplitter(1000, 150))
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, 0, chunks[0].Metadata[models.MetaPage])
	assert.Equal(t, 1, chunks[1].Metadata[models.MetaPage])
}

func TestLoadText(t *testing.T) {
	path := writeFile(t, "notes.txt", "first line\nsecond line")

	docs, err := NewFileLoader(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "first line\nsecond line", docs[0].PageContent)
	assert.Equal(t, path, docs[0].Metadata[models.MetaSource])
	assert.Equal(t, 0, docs[0].Metadata[models.MetaPage])
	assert.Equal(t, 1, docs[0].Metadata[models.MetaTotalPages])
}

func TestLoadMarkdown(t *testing.T) {
	path := writeFile(t, "readme.md", "# Title\n\nSome *bold* text with [a link](http://example.com).\n\n- item one\n- item two\n\n```\ncode here\n```\n")

	docs, err := NewFileLoader(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)

	content := docs[0].PageContent
	assert.Contains(t, content, "Title")
	assert.Contains(t, content, "Some bold text with a link.")
	assert.Contains(t, content, "item one")
	assert.Contains(t, content, "code here")
	assert.NotContains(t, content, "*")
	assert.NotContains(t, content, "](")
	assert.NotContains(t, content, "#")
	assert.NotContains(t, content, "\n\n\n")
}

func TestLoadPPTX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.pptx")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	slides := map[string]string{
		"ppt/slides/slide2.xml":            `<p:sld><a:p><a:r><a:t>Second</a:t></a:r></a:p></p:sld>`,
		"ppt/slides/slide1.xml":            `<p:sld><a:p><a:r><a:t>First &amp; one</a:t></a:r></a:p><a:p><a:r><a:t>more</a:t></a:r></a:p></p:sld>`,
		"ppt/slides/_rels/slide1.xml.rels": `<Relationships/>`,
	}
	for name, body := range slides {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	docs, err := NewFileLoader(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "First & one\nmore", docs[0].PageContent)
	assert.Equal(t, 1, docs[0].Metadata[models.MetaSlide])
	assert.Equal(t, "Second", docs[1].PageContent)
	assert.Equal(t, 1, docs[1].Metadata[models.MetaPage])
}

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "name"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "qty"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "bolts"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", 12))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	docs, err := NewFileLoader(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "## Sheet: Sheet1\nname\tqty\nbolts\t12\n", docs[0].PageContent)
	assert.Equal(t, "Sheet1", docs[0].Metadata[models.MetaSheet])
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := NewFileLoader(filepath.Join(t.TempDir(), "document.pdf")).Load(context.Background())

		var le *models.LoadError
		require.ErrorAs(t, err, &le)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("unsupported format", func(t *testing.T) {
		path := writeFile(t, "image.png", "not really")
		_, err := NewFileLoader(path).Load(context.Background())

		var le *models.LoadError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, path, le.Path)
		assert.ErrorIs(t, err, models.ErrUnsupportedFormat)
	})

	t.Run("corrupt pdf", func(t *testing.T) {
		path := writeFile(t, "broken.pdf", "%PDF-1.4 garbage")
		_, err := NewFileLoader(path).Load(context.Background())

		var le *models.LoadError
		require.ErrorAs(t, err, &le)
	})
}

func TestSplitDocuments(t *testing.T) {
	paragraph := strings.Repeat("palavra ", 200)
	docs := []schema.Document{
		{PageContent: paragraph, Metadata: map[string]any{models.MetaPage: 0}},
		{PageContent: "   \n\n  ", Metadata: map[string]any{models.MetaPage: 1}},
		{PageContent: "short page", Metadata: map[string]any{models.MetaPage: 2}},
	}

	chunks, err := SplitDocuments(NewSplitter(1000, 150), docs)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunks), 3)

	last := chunks[len(chunks)-1]
	for _, c := range chunks[:len(chunks)-1] {
		assert.LessOrEqual(t, len([]rune(c.PageContent)), 1000)
		assert.NotEmpty(t, strings.TrimSpace(c.PageContent))
		assert.Equal(t, 0, c.Metadata[models.MetaPage])
	}
	assert.Equal(t, "short page", last.PageContent)
	assert.Equal(t, 2, last.Metadata[models.MetaPage])
}

func TestLoadAndSplitEmpty(t *testing.T) {
	path := writeFile(t, "empty.txt", "")

	chunks, err := NewFileLoader(path).LoadAndSplit(context.Background(), NewSplitter(1000, 150))
	require.NoError(t, err)
	assert.Empty(t, chunks)
}
