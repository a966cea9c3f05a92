// Command clinextract extracts PDF pages into search-result records.
//
// Usage:
//
//	clinextract <pdf_path> [max_pages]
//	clinextract --metadata <pdf_path>
//
// On success the JSON result goes to stdout. On any failure a JSON object
// with an "error" key goes to stderr and the process exits non-zero;
// stdout stays empty.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/evidencelab/clinextract/internal/config"
	"github.com/evidencelab/clinextract/internal/extract"
)

func main() {
	metadataMode := pflag.Bool("metadata", false, "Print page count and document metadata instead of page content")
	maxPagesFlag := pflag.Int("max-pages", 0, "Maximum number of pages to process (overrides the positional argument)")
	pflag.Usage = printUsage
	pflag.Parse()

	if pflag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg := config.DefaultConfig()
	pdfPath := pflag.Arg(0)

	maxPages := cfg.MaxPages
	if pflag.NArg() > 1 {
		parsed, err := strconv.Atoi(pflag.Arg(1))
		if err != nil {
			fail(fmt.Errorf("invalid max_pages %q: %w", pflag.Arg(1), err))
		}
		maxPages = parsed
	}
	if *maxPagesFlag > 0 {
		maxPages = *maxPagesFlag
	}

	extractor := extract.NewExtractor(cfg.MaxFileSize)

	var output interface{}
	if *metadataMode {
		info, err := extractor.Metadata(pdfPath)
		if err != nil {
			fail(err)
		}
		output = info
	} else {
		results, err := extractor.SearchResults(pdfPath, maxPages)
		if err != nil {
			fail(err)
		}
		output = results
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(output); err != nil {
		fail(fmt.Errorf("failed to encode output: %w", err))
	}
}

// fail prints a JSON error object to stderr and exits non-zero. The
// single coarse error shape is intentional: downstream callers parse
// stderr for an "error" key, nothing more.
func fail(err error) {
	encoded, marshalErr := json.Marshal(map[string]string{"error": err.Error()})
	if marshalErr != nil {
		fmt.Fprintf(os.Stderr, `{"error": %q}`+"\n", err.Error())
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, string(encoded))
	os.Exit(1)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] <pdf_path> [max_pages]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Extract PDF pages into search-result records.\n\n")
	fmt.Fprintf(os.Stderr, "Flags:\n")
	pflag.PrintDefaults()
}
