package uicheck

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HighlightKind identifies a highlight category by the inline background
// color the application paints it with.
type HighlightKind string

// Highlight categories used by the application's PDF pane.
const (
	// HighlightVerified marks human-verified extractions (green).
	HighlightVerified HighlightKind = "verified"
	// HighlightSuggested marks AI-suggested extractions (yellow).
	HighlightSuggested HighlightKind = "ai-suggested"
	// HighlightFocused marks the highlight linked to the currently
	// selected data field (indigo).
	HighlightFocused HighlightKind = "focused"
)

// highlightRGB maps each category to the RGB triple embedded in the
// span's inline style. These triples are part of the application's
// implicit markup contract; a palette change breaks this mapping.
var highlightRGB = map[HighlightKind]string{
	HighlightVerified:  "16, 185, 129",
	HighlightSuggested: "252, 211, 77",
	HighlightFocused:   "99, 102, 241",
}

// RGB returns the inline-style RGB triple for the category.
func (k HighlightKind) RGB() string {
	return highlightRGB[k]
}

// Highlight is one highlighted text span sampled from the PDF pane.
type Highlight struct {
	Text  string
	Title string
}

// PageCensus summarizes the highlights of one rendered PDF page.
type PageCensus struct {
	Page    int // 1-based render order
	Total   int
	ByKind  map[HighlightKind]int
	Samples []Highlight
}

// maxCensusSamples caps the per-page sample list in a census.
const maxCensusSamples = 5

// isHighlightSpan reports whether the inline style marks a painted
// highlight, optionally of a specific kind.
func isHighlightSpan(style string, kind HighlightKind) bool {
	if !strings.Contains(style, "background") {
		return false
	}
	if kind == "" {
		return true
	}
	return strings.Contains(style, kind.RGB())
}

// CountHighlights counts highlight spans of the given kind in the captured
// document markup. An empty kind counts every painted highlight.
func CountHighlights(html string, kind HighlightKind) (int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0, fmt.Errorf("uicheck: parsing document: %w", err)
	}
	return countHighlights(doc.Selection, kind), nil
}

func countHighlights(sel *goquery.Selection, kind HighlightKind) int {
	count := 0
	sel.Find("span[style]").Each(func(_ int, span *goquery.Selection) {
		style, _ := span.Attr("style")
		if isHighlightSpan(style, kind) {
			count++
		}
	})
	return count
}

// CensusByPage inspects the captured markup one rendered PDF page at a
// time (".page-container" elements) and returns per-page highlight counts
// with a few sampled spans each.
func CensusByPage(html string) ([]PageCensus, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("uicheck: parsing document: %w", err)
	}

	var pages []PageCensus
	doc.Find(".page-container").Each(func(i int, page *goquery.Selection) {
		census := PageCensus{
			Page:   i + 1,
			ByKind: map[HighlightKind]int{},
		}

		page.Find("span[style]").Each(func(_ int, span *goquery.Selection) {
			style, _ := span.Attr("style")
			if !isHighlightSpan(style, "") {
				return
			}
			census.Total++
			for kind := range highlightRGB {
				if isHighlightSpan(style, kind) {
					census.ByKind[kind]++
				}
			}
			if len(census.Samples) < maxCensusSamples {
				title, _ := span.Attr("title")
				census.Samples = append(census.Samples, Highlight{
					Text:  strings.TrimSpace(span.Text()),
					Title: title,
				})
			}
		})

		pages = append(pages, census)
	})

	return pages, nil
}
