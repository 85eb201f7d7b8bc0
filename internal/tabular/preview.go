// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tabular

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/pdiddy/pubmed-export/pkg/types"
)

const (
	titleWidth    = 60
	linkWidth     = 42
	keywordsWidth = 40
)

// FormatTable writes records as a human-readable table to w. Columns are
// truncated by display width so wide glyphs in titles keep rows aligned.
func FormatTable(records []types.Record, w io.Writer) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No articles found.")
		return
	}

	headers := types.Headers()
	fmt.Fprintf(w, "%-4s  %s  %s  %s\n", "#",
		cell(headers[0], titleWidth), cell(headers[1], linkWidth), headers[2])
	fmt.Fprintln(w, strings.Repeat("-", 4+2+titleWidth+2+linkWidth+2+keywordsWidth))

	withKeywords := 0
	for i, r := range records {
		kw := "-"
		if r.HasKeywords() {
			kw = r.KeywordsOrEmpty()
			withKeywords++
		}
		fmt.Fprintf(w, "%-4d  %s  %s  %s\n", i+1,
			cell(r.Title, titleWidth), cell(r.Link, linkWidth),
			runewidth.Truncate(kw, keywordsWidth, "..."))
	}

	fmt.Fprintf(w, "\n%d articles (%d with keywords)\n", len(records), withKeywords)
}

// FormatRows writes raw spreadsheet rows, the first treated as the header.
func FormatRows(rows [][]string, w io.Writer) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "Empty sheet.")
		return
	}
	widths := []int{titleWidth, linkWidth, keywordsWidth}
	for i, row := range rows {
		cells := make([]string, len(row))
		for j, c := range row {
			width := keywordsWidth
			if j < len(widths) {
				width = widths[j]
			}
			cells[j] = cell(c, width)
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " "))
		if i == 0 {
			fmt.Fprintln(w, strings.Repeat("-", titleWidth+2+linkWidth+2+keywordsWidth))
		}
	}
	fmt.Fprintf(w, "\n%d data rows\n", len(rows)-1)
}

// cell truncates s to width display columns and pads it on the right.
func cell(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "..."), width)
}
