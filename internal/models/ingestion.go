package models

// Metadata keys attached to loaded documents.
const (
	MetaSource     = "source"
	MetaPage       = "page"
	MetaTotalPages = "total_pages"
	MetaSheet      = "sheet"
	MetaSlide      = "slide"
)

// IngestionSummary describes one completed ingestion run
type IngestionSummary struct {
	Source     string   `json:"source"`
	Pages      int      `json:"pages"`
	Chunks     int      `json:"chunks"`
	Collection string   `json:"collection"`
	IDs        []string `json:"ids"`
}
