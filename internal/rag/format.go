package rag

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/tmc/langchaingo/schema"
)

// WriteResults prints search results for inspection: rank, score, text and
// metadata sorted by key.
func WriteResults(w io.Writer, docs []schema.Document) {
	rule := strings.Repeat("=", 50)
	for i, d := range docs {
		fmt.Fprintln(w, rule)
		fmt.Fprintf(w, "Resultado %d (score: %.2f):\n", i+1, d.Score)
		fmt.Fprintln(w, rule)

		fmt.Fprint(w, "\nTexto:\n\n")
		fmt.Fprintln(w, strings.TrimSpace(d.PageContent))

		fmt.Fprint(w, "\nMetadados:\n\n")
		keys := make([]string, 0, len(d.Metadata))
		for k := range d.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "%s: %v\n", k, d.Metadata[k])
		}
		fmt.Fprintln(w)
	}
}
