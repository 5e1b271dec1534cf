package parser

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/nguyenthenguyen/docx"
	"github.com/tealeg/xlsx"
	"github.com/tmc/langchaingo/schema"

	"pdf-rag/internal/models"
)

var slideRe = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

func parseDOCX(path string) ([]schema.Document, error) {
	r, err := docx.ReadDocxFile(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	content, err := extractTextFromXML(strings.NewReader(r.Editable().GetContent()))
	if err != nil {
		return nil, err
	}
	return []schema.Document{{
		PageContent: content,
		Metadata:    pageMetadata(path, 0, 1),
	}}, nil
}

// parsePPTX returns one document per slide, in slide order.
func parsePPTX(path string) ([]schema.Document, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	type slide struct {
		num  int
		file *zip.File
	}
	var slides []slide
	for _, file := range zr.File {
		m := slideRe.FindStringSubmatch(file.Name)
		if m == nil {
			continue
		}
		num, _ := strconv.Atoi(m[1])
		slides = append(slides, slide{num: num, file: file})
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].num < slides[j].num })

	docs := make([]schema.Document, 0, len(slides))
	for i, s := range slides {
		rc, err := s.file.Open()
		if err != nil {
			return nil, fmt.Errorf("slide %d: %w", s.num, err)
		}
		text, err := extractTextFromXML(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("slide %d: %w", s.num, err)
		}

		meta := pageMetadata(path, i, len(slides))
		meta[models.MetaSlide] = s.num
		docs = append(docs, schema.Document{PageContent: text, Metadata: meta})
	}
	return docs, nil
}

// parseXLSX returns one tab-separated document per sheet.
func parseXLSX(path string) ([]schema.Document, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, err
	}

	docs := make([]schema.Document, 0, len(f.Sheets))
	for i, sheet := range f.Sheets {
		var text strings.Builder
		fmt.Fprintf(&text, "## Sheet: %s\n", sheet.Name)
		for _, row := range sheet.Rows {
			if row == nil {
				continue
			}
			cells := make([]string, len(row.Cells))
			for j, cell := range row.Cells {
				cells[j] = cell.String()
			}
			// rows are padded to the sheet width
			for len(cells) > 0 && cells[len(cells)-1] == "" {
				cells = cells[:len(cells)-1]
			}
			text.WriteString(strings.Join(cells, "\t"))
			text.WriteString("\n")
		}

		meta := pageMetadata(path, i, len(f.Sheets))
		meta[models.MetaSheet] = sheet.Name
		docs = append(docs, schema.Document{PageContent: text.String(), Metadata: meta})
	}
	return docs, nil
}

// extractTextFromXML collects the text runs (<w:t>, <a:t>) of an OOXML part,
// one line per paragraph.
func extractTextFromXML(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var text strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				text.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				text.Write(t)
			}
		}
	}
	return strings.TrimSpace(text.String()), nil
}
