package extract

import (
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

// Extractor turns PDF documents into search-result records.
type Extractor struct {
	maxFileSize int64
	validator   *Validator
}

// NewExtractor creates a new extractor with the specified constraints.
func NewExtractor(maxFileSize int64) *Extractor {
	return &Extractor{
		maxFileSize: maxFileSize,
		validator:   NewValidator(maxFileSize),
	}
}

// Validator exposes the extractor's file validator.
func (e *Extractor) Validator() *Validator {
	return e.validator
}

// SearchResults extracts at most maxPages pages from the start of the
// document into search-result records, one per non-blank page, in page
// order. Any document or page error aborts the whole call; there is no
// partial output.
func (e *Extractor) SearchResults(path string, maxPages int) ([]SearchResult, error) {
	if maxPages <= 0 {
		return nil, fmt.Errorf("max pages must be positive, got %d", maxPages)
	}
	if err := e.validator.ValidateFile(path); err != nil {
		return nil, err
	}

	f, reader, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	numPages := reader.NumPage()
	if maxPages < numPages {
		numPages = maxPages
	}

	results := []SearchResult{}
	for pageNum := 1; pageNum <= numPages; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		frags, err := pageFragments(page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", pageNum, err)
		}

		rows := assembleRows(frags)
		full := composePageText(renderRows(rows), renderTables(detectTables(rows)))
		if full == "" {
			continue
		}

		results = append(results, newSearchResult(pageNum, full))
	}

	return results, nil
}

// Metadata returns the page count and the trailer Info dictionary of the
// document. Documents without embedded metadata yield an empty map.
func (e *Extractor) Metadata(path string) (*DocumentInfo, error) {
	if err := e.validator.ValidateFile(path); err != nil {
		return nil, err
	}

	f, reader, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return &DocumentInfo{
		NumPages: reader.NumPage(),
		Metadata: infoDictionary(reader),
	}, nil
}

// openReader opens a document for parsing. The parsing library panics on
// some malformed cross-reference tables; that is converted into an error.
func openReader(path string) (f *os.File, reader *pdf.Reader, err error) {
	defer func() {
		if r := recover(); r != nil {
			if f != nil {
				f.Close()
			}
			f, reader = nil, nil
			err = fmt.Errorf("failed to open PDF: %v", r)
		}
	}()

	f, reader, err = pdf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	return f, reader, nil
}

// pageFragments reads the positioned text content of a page. The parsing
// library panics on some malformed content streams; that is surfaced as an
// error so the whole extraction aborts per the single-failure policy.
func pageFragments(page pdf.Page) (frags []fragment, err error) {
	defer func() {
		if r := recover(); r != nil {
			frags = nil
			err = fmt.Errorf("malformed page content: %v", r)
		}
	}()

	content := page.Content()
	frags = make([]fragment, 0, len(content.Text))
	for _, t := range content.Text {
		frags = append(frags, fragment{X: t.X, Y: t.Y, W: t.W, Text: t.S})
	}
	return frags, nil
}

// infoDictionary extracts the trailer Info dictionary as a string map.
// Extraction is best-effort: a panic inside the parsing library leaves the
// metadata empty rather than failing the call.
func infoDictionary(reader *pdf.Reader) map[string]string {
	metadata := map[string]string{}

	defer func() {
		recover() //nolint:errcheck // metadata stays empty on parse panic
	}()

	trailer := reader.Trailer()
	if trailer.IsNull() {
		return metadata
	}

	info := trailer.Key("Info")
	if info.IsNull() || info.Kind() != pdf.Dict {
		return metadata
	}

	for _, key := range info.Keys() {
		value := info.Key(key)
		if s := stringifyValue(value); s != "" {
			metadata[key] = s
		}
	}

	return metadata
}

// stringifyValue converts a PDF value into a plain string for the metadata
// map. Unsupported kinds fall back to the library's syntax representation.
func stringifyValue(v pdf.Value) string {
	switch v.Kind() {
	case pdf.Null:
		return ""
	case pdf.String:
		return v.Text()
	case pdf.Name:
		return v.Name()
	case pdf.Bool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case pdf.Integer:
		return fmt.Sprintf("%d", v.Int64())
	case pdf.Real:
		return fmt.Sprintf("%g", v.Float64())
	default:
		return v.String()
	}
}
