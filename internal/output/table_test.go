package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderBasicTable(t *testing.T) {
	table := Table{
		Title:   "Active Complaints",
		Columns: []string{"complaint_id", "title"},
		Rows: [][]string{
			{"1", "Hole on Main St"},
			{"2", "Dark corner"},
		},
	}

	var buf bytes.Buffer
	table.Render(&buf)
	out := buf.String()
	lines := strings.Split(out, "\n")

	// Banner, title, banner
	if lines[1] != strings.Repeat("=", 60) {
		t.Errorf("Line 1 should be a 60-char banner, got %q", lines[1])
	}
	if lines[2] != "Active Complaints" {
		t.Errorf("Line 2 should be the title, got %q", lines[2])
	}
	if lines[3] != strings.Repeat("=", 60) {
		t.Errorf("Line 3 should be a 60-char banner, got %q", lines[3])
	}

	// Header: both columns left-justified to 15 chars
	wantHeader := "complaint_id    | title          "
	if lines[4] != wantHeader {
		t.Errorf("Header = %q, want %q", lines[4], wantHeader)
	}

	// Separator as long as the header
	if lines[5] != strings.Repeat("-", len(wantHeader)) {
		t.Errorf("Separator = %q, want %d dashes", lines[5], len(wantHeader))
	}

	// Value wider than 15 chars is not truncated
	if !strings.Contains(out, "Hole on Main St") {
		t.Error("Long value should not be truncated")
	}

	if !strings.Contains(out, "Total records: 2") {
		t.Errorf("Output should end with record count, got:\n%s", out)
	}
}

func TestRenderEmptyTable(t *testing.T) {
	table := Table{
		Title:   "Active Complaints",
		Columns: []string{"complaint_id", "title"},
	}

	var buf bytes.Buffer
	table.Render(&buf)
	out := buf.String()

	if !strings.Contains(out, "No results found.") {
		t.Errorf("Empty table should render the no-results line, got:\n%s", out)
	}
	if strings.Contains(out, "complaint_id") {
		t.Error("Empty table should not render a header line")
	}
	if strings.Contains(out, "Total records") {
		t.Error("Empty table should not render a record count")
	}
}

func TestRenderRaggedRows(t *testing.T) {
	table := Table{
		Title:   "Ragged",
		Columns: []string{"a", "b"},
		Rows: [][]string{
			{"short", "a value much longer than fifteen characters"},
			{"x", "y"},
		},
	}

	var buf bytes.Buffer
	table.Render(&buf)
	out := buf.String()

	if !strings.Contains(out, "a value much longer than fifteen characters") {
		t.Error("Values longer than the column width must survive intact")
	}
	// Short values still pad to the minimum width
	if !strings.Contains(out, "x               | y              ") {
		t.Errorf("Short values should pad to 15 chars, got:\n%s", out)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{33.333333, 33.33},
		{66.666666, 66.67},
		{58.333333, 58.33},
		{100.0, 100.0},
		{0.0, 0.0},
	}

	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatRate(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{50.0, "50.00"},
		{33.333333, "33.33"},
		{100.0, "100.00"},
		{0.0, "0.00"},
	}

	for _, tt := range tests {
		if got := FormatRate(tt.in); got != tt.want {
			t.Errorf("FormatRate(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
