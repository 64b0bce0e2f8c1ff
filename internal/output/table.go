// Package output renders report results as fixed-width text tables.
package output

import (
	"fmt"
	"io"
	"strings"
)

const (
	// bannerWidth is the width of the title banner
	bannerWidth = 60
	// columnWidth is the minimum width every value is padded to.
	// Longer values are not truncated; the table is allowed to go ragged.
	columnWidth = 15
)

// Table is the rendering boundary: an ordered set of columns and
// stringified rows. Reports stay strongly typed until they are converted
// into a Table at the CLI edge.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
}

// Render writes the table to w: a title banner, a header line, a separator,
// one line per row, and a trailing record count. An empty table renders the
// banner and an explicit no-results line instead.
func (t Table) Render(w io.Writer) {
	banner := strings.Repeat("=", bannerWidth)
	fmt.Fprintf(w, "\n%s\n", banner)
	fmt.Fprintln(w, t.Title)
	fmt.Fprintln(w, banner)

	if len(t.Rows) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	header := joinPadded(t.Columns)
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", len(header)))

	for _, row := range t.Rows {
		fmt.Fprintln(w, joinPadded(row))
	}

	fmt.Fprintf(w, "\nTotal records: %d\n", len(t.Rows))
}

func joinPadded(values []string) string {
	padded := make([]string, len(values))
	for i, v := range values {
		padded[i] = fmt.Sprintf("%-*s", columnWidth, v)
	}
	return strings.Join(padded, " | ")
}
