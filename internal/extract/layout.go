package extract

import (
	"sort"
	"strings"
)

// Layout assembly thresholds, in PDF points.
const (
	// rowTolerance is the maximum vertical distance between fragments
	// considered to sit on the same visual row.
	rowTolerance = 2.5

	// wordGap is the horizontal gap above which two fragments are separate
	// words rather than parts of one.
	wordGap = 1.0

	// columnGap is the horizontal gap above which a row splits into a new
	// cell. Gaps this wide indicate column structure rather than word
	// spacing.
	columnGap = 12.0
)

// fragment is a positioned piece of page text. Coordinates follow the PDF
// convention: origin bottom-left, Y increasing upward.
type fragment struct {
	X, Y, W float64
	Text    string
}

// row is one visual line of a page, split into cells at column gaps.
// A row with a single cell is ordinary prose; multi-cell rows are
// candidates for table detection.
type row struct {
	Y     float64
	Cells []string
}

// assembleRows groups positioned fragments into visual rows ordered
// top-to-bottom, with fragments inside a row ordered left-to-right and
// merged into cells.
func assembleRows(frags []fragment) []row {
	if len(frags) == 0 {
		return nil
	}

	sorted := make([]fragment, len(frags))
	copy(sorted, frags)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y // top of page first
		}
		return sorted[i].X < sorted[j].X
	})

	var rows []row
	var current []fragment
	currentY := sorted[0].Y

	flush := func() {
		if len(current) == 0 {
			return
		}
		if cells := mergeCells(current); len(cells) > 0 {
			rows = append(rows, row{Y: currentY, Cells: cells})
		}
		current = current[:0]
	}

	for _, f := range sorted {
		if currentY-f.Y > rowTolerance {
			flush()
			currentY = f.Y
		}
		current = append(current, f)
	}
	flush()

	return rows
}

// mergeCells joins row fragments left-to-right, inserting word spacing for
// small gaps and starting a new cell at column-sized gaps. A whitespace
// fragment reported by the library forces a word break even when the gap
// heuristic sees none: documents using a non-embedded base-14 font without
// a Widths array place every glyph at the same X with zero width, so the
// space characters themselves are the only word-boundary signal.
func mergeCells(frags []fragment) []string {
	sort.SliceStable(frags, func(i, j int) bool { return frags[i].X < frags[j].X })

	var cells []string
	var cell strings.Builder
	prevEnd := 0.0
	pendingBreak := false

	for i, f := range frags {
		text := f.Text
		if strings.TrimSpace(text) == "" {
			if cell.Len() > 0 {
				pendingBreak = true
			}
			continue
		}

		if cell.Len() > 0 {
			gap := f.X - prevEnd
			switch {
			case gap > columnGap:
				cells = append(cells, strings.TrimSpace(cell.String()))
				cell.Reset()
			case (pendingBreak || gap > wordGap) && !strings.HasSuffix(cell.String(), " "):
				cell.WriteByte(' ')
			}
		}
		pendingBreak = false
		cell.WriteString(text)

		end := f.X + f.W
		if end > prevEnd || i == 0 {
			prevEnd = end
		}
	}

	if trimmed := strings.TrimSpace(cell.String()); trimmed != "" {
		cells = append(cells, trimmed)
	}

	return cells
}

// renderRows produces the layout-preserving plain text of a page: one line
// per visual row, cells separated by a double space to keep the column
// alignment readable.
func renderRows(rows []row) string {
	var b strings.Builder
	for i, r := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Join(r.Cells, "  "))
	}
	return b.String()
}
