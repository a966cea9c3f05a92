package extract

import (
	"fmt"
	"strings"
)

// minTableRows is the minimum run of consecutive multi-cell rows treated
// as a table. A single multi-cell row is more likely a heading with a page
// number or similar layout artifact.
const minTableRows = 2

// detectTables finds runs of consecutive multi-cell rows and returns them
// as tables, in page order. Cell text is reused as-is from row assembly.
func detectTables(rows []row) [][][]string {
	var tables [][][]string
	var run [][]string

	flush := func() {
		if len(run) >= minTableRows {
			table := make([][]string, len(run))
			copy(table, run)
			tables = append(tables, table)
		}
		run = nil
	}

	for _, r := range rows {
		if len(r.Cells) >= 2 {
			run = append(run, r.Cells)
			continue
		}
		flush()
	}
	flush()

	return tables
}

// renderTables renders detected tables with a 1-based [Table k] marker and
// rows joined by " | ", matching the shape downstream consumers parse.
func renderTables(tables [][][]string) string {
	if len(tables) == 0 {
		return ""
	}

	var b strings.Builder
	for k, table := range tables {
		fmt.Fprintf(&b, "\n[Table %d]\n", k+1)
		for _, cells := range table {
			b.WriteString(strings.Join(cells, " | "))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// composePageText combines the plain text of a page with its rendered
// table block. The reported text intentionally contains the table content
// twice: once in reading position and once in the structured block.
func composePageText(text, tableText string) string {
	full := text
	if tableText != "" {
		full += "\n\n--- Tables ---" + tableText
	}
	return strings.TrimSpace(full)
}
