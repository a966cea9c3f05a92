package extract

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeSimplePDF writes a minimal single-font PDF with one page per entry
// of pageTexts; an empty entry produces a content-free page. Object
// offsets for the cross-reference table are computed while writing, so
// the file parses cleanly. The font is unembedded Helvetica without a
// Widths array, which places every glyph at the same position.
func writeSimplePDF(t *testing.T, path string, pageTexts []string) {
	t.Helper()

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := map[int]int{}
	writeObj := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	n := len(pageTexts)
	kids := make([]string, 0, n)
	for i := range pageTexts {
		kids = append(kids, fmt.Sprintf("%d 0 R", 4+2*i))
	}

	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>",
		strings.Join(kids, " "), n))
	writeObj(3, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	for i, text := range pageTexts {
		pageObj := 4 + 2*i
		contentObj := 5 + 2*i

		var stream string
		if text != "" {
			stream = fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", text)
		}

		writeObj(pageObj, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
				"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			contentObj))
		writeObj(contentObj, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream",
			len(stream), stream))
	}

	total := 3 + 2*n
	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", total+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= total; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		total+1, xrefOffset)

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("Failed to write test PDF: %v", err)
	}
}

func TestSearchResultsSkipsBlankPages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sparse.pdf")
	writeSimplePDF(t, path, []string{"", "Hello clinical world", ""})

	e := NewExtractor(1024 * 1024)

	results, err := e.SearchResults(path, 10)
	if err != nil {
		t.Fatalf("SearchResults() unexpected error: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("Expected exactly one record for the single non-blank page, got %d", len(results))
	}

	r := results[0]
	if r.Source != "page-2" {
		t.Errorf("Expected source 'page-2', got '%s'", r.Source)
	}
	if r.Title != "Page 2" {
		t.Errorf("Expected title 'Page 2', got '%s'", r.Title)
	}
	if len(r.Content) != 1 || r.Content[0].Text != "Hello clinical world" {
		t.Errorf("Unexpected content: %+v", r.Content)
	}
	if !r.Citations.Enabled {
		t.Error("Expected citations to be enabled")
	}
}

func TestSearchResultsHonorsPageLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "three.pdf")
	writeSimplePDF(t, path, []string{"first page", "second page", "third page"})

	e := NewExtractor(1024 * 1024)

	results, err := e.SearchResults(path, 2)
	if err != nil {
		t.Fatalf("SearchResults() unexpected error: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 records under a page limit of 2, got %d", len(results))
	}
	if results[0].Source != "page-1" || results[1].Source != "page-2" {
		t.Errorf("Expected records in page order, got %s, %s",
			results[0].Source, results[1].Source)
	}
}

func TestMetadataPageCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counted.pdf")
	writeSimplePDF(t, path, []string{"one", "", "three"})

	e := NewExtractor(1024 * 1024)

	info, err := e.Metadata(path)
	if err != nil {
		t.Fatalf("Metadata() unexpected error: %v", err)
	}
	if info.NumPages != 3 {
		t.Errorf("Expected 3 pages, got %d", info.NumPages)
	}
	if info.Metadata == nil {
		t.Error("Expected an empty metadata map, not nil")
	}
	if len(info.Metadata) != 0 {
		t.Errorf("Expected no metadata entries, got %v", info.Metadata)
	}
}

func TestNewExtractor(t *testing.T) {
	e := NewExtractor(1024 * 1024)

	if e == nil {
		t.Fatal("Expected extractor to be created")
	}
	if e.Validator() == nil {
		t.Error("Expected extractor to carry a validator")
	}
}

func TestSearchResultsRejectsBadInput(t *testing.T) {
	tempDir := t.TempDir()

	txtPath := filepath.Join(tempDir, "notes.txt")
	if err := os.WriteFile(txtPath, []byte("plain text"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	corruptPath := filepath.Join(tempDir, "corrupt.pdf")
	if err := os.WriteFile(corruptPath, []byte("%PDF-1.4 not really"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	e := NewExtractor(1024 * 1024)

	tests := []struct {
		name     string
		path     string
		maxPages int
		wantErr  string
	}{
		{
			name:     "zero max pages",
			path:     corruptPath,
			maxPages: 0,
			wantErr:  "max pages must be positive",
		},
		{
			name:     "negative max pages",
			path:     corruptPath,
			maxPages: -3,
			wantErr:  "max pages must be positive",
		},
		{
			name:     "missing file",
			path:     filepath.Join(tempDir, "missing.pdf"),
			maxPages: 10,
			wantErr:  "does not exist",
		},
		{
			name:     "wrong extension",
			path:     txtPath,
			maxPages: 10,
			wantErr:  "not a PDF",
		},
		{
			name:     "corrupt document",
			path:     corruptPath,
			maxPages: 10,
			wantErr:  "failed to open PDF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := e.SearchResults(tt.path, tt.maxPages)
			if err == nil {
				t.Fatalf("SearchResults() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("SearchResults() error = %v, want containing %q", err, tt.wantErr)
			}
			if results != nil {
				t.Error("Expected no partial results on failure")
			}
		})
	}
}

func TestMetadataRejectsBadInput(t *testing.T) {
	tempDir := t.TempDir()
	corruptPath := filepath.Join(tempDir, "corrupt.pdf")
	if err := os.WriteFile(corruptPath, []byte("%PDF-1.4 not really"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	e := NewExtractor(1024 * 1024)

	if _, err := e.Metadata(filepath.Join(tempDir, "missing.pdf")); err == nil {
		t.Error("Expected metadata to fail for a missing file")
	}
	if _, err := e.Metadata(corruptPath); err == nil {
		t.Error("Expected metadata to fail for a corrupt document")
	}
}
