package uicheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixtureHTML mimics the application's rendered PDF pane: absolutely
// positioned highlight spans inside per-page containers, with the
// category encoded in the inline background color.
const fixtureHTML = `
<html><body>
<div class="page-container">
  <span style="position:absolute; background-color: rgba(16, 185, 129, 0.3)" title="baseline.sampleSize.totalN">102 patients</span>
  <span style="position:absolute; background-color: rgba(252, 211, 77, 0.35)" title="picoT.population">adults with stroke</span>
  <span style="color: red">not a highlight</span>
</div>
<div class="page-container">
  <span style="background-color: rgba(99, 102, 241, 0.4)" title="outcomes.primary">mRS 0-2 at 90 days</span>
  <span style="background-color: rgba(252, 211, 77, 0.35)">randomized 1:1</span>
</div>
</body></html>`

func TestHighlightKindRGB(t *testing.T) {
	assert.Equal(t, "16, 185, 129", HighlightVerified.RGB())
	assert.Equal(t, "252, 211, 77", HighlightSuggested.RGB())
	assert.Equal(t, "99, 102, 241", HighlightFocused.RGB())
}

func TestCountHighlights(t *testing.T) {
	tests := []struct {
		name string
		kind HighlightKind
		want int
	}{
		{name: "all kinds", kind: "", want: 4},
		{name: "verified", kind: HighlightVerified, want: 1},
		{name: "ai-suggested", kind: HighlightSuggested, want: 2},
		{name: "focused", kind: HighlightFocused, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CountHighlights(fixtureHTML, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCountHighlightsIgnoresUnstyledMarkup(t *testing.T) {
	got, err := CountHighlights("<div><span>plain</span><p style=\"background: red\">p</p></div>", "")
	require.NoError(t, err)
	assert.Zero(t, got, "only styled spans count as highlights")
}

func TestCensusByPage(t *testing.T) {
	pages, err := CensusByPage(fixtureHTML)
	require.NoError(t, err)
	require.Len(t, pages, 2)

	first := pages[0]
	assert.Equal(t, 1, first.Page)
	assert.Equal(t, 2, first.Total)
	assert.Equal(t, 1, first.ByKind[HighlightVerified])
	assert.Equal(t, 1, first.ByKind[HighlightSuggested])
	require.Len(t, first.Samples, 2)
	assert.Equal(t, "102 patients", first.Samples[0].Text)
	assert.Equal(t, "baseline.sampleSize.totalN", first.Samples[0].Title)

	second := pages[1]
	assert.Equal(t, 2, second.Page)
	assert.Equal(t, 2, second.Total)
	assert.Equal(t, 1, second.ByKind[HighlightFocused])
}

func TestCensusByPageNoPages(t *testing.T) {
	pages, err := CensusByPage("<html><body><p>empty app shell</p></body></html>")
	require.NoError(t, err)
	assert.Empty(t, pages)
}
