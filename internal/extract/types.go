package extract

import "fmt"

// Block type constants used in emitted search results.
const (
	resultBlockType  = "search_result"
	contentBlockType = "text"
)

// SearchResult is the fixed JSON record emitted for one non-blank PDF page.
// The field names form the schema an external consumer matches on and must
// stay stable.
type SearchResult struct {
	Type      string         `json:"type"`
	Source    string         `json:"source"`
	Title     string         `json:"title"`
	Content   []ContentBlock `json:"content"`
	Citations Citations      `json:"citations"`
}

// ContentBlock is a single typed content entry inside a search result.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Citations controls whether downstream consumers may cite this result.
type Citations struct {
	Enabled bool `json:"enabled"`
}

// DocumentInfo describes a document without extracting its content.
// Metadata carries the trailer Info dictionary as-is and is empty, never
// nil, when the document has no embedded metadata.
type DocumentInfo struct {
	NumPages int               `json:"num_pages"`
	Metadata map[string]string `json:"metadata"`
}

// newSearchResult builds the per-page record for the given 1-based page
// number. Text is expected to be trimmed and non-empty.
func newSearchResult(pageNum int, text string) SearchResult {
	return SearchResult{
		Type:   resultBlockType,
		Source: fmt.Sprintf("page-%d", pageNum),
		Title:  fmt.Sprintf("Page %d", pageNum),
		Content: []ContentBlock{
			{Type: contentBlockType, Text: text},
		},
		Citations: Citations{Enabled: true},
	}
}
