package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Tian-Jacobs/Community-Services-Dashboard/internal/reports"
)

func TestActiveComplaintsTable(t *testing.T) {
	rows := []reports.ComplaintSummary{
		{ID: 1, ResidentName: "Alice Brown", CategoryName: "Pothole", Title: "Hole", SubmissionDate: "2024-01-01", Status: "Submitted"},
	}

	table := activeComplaintsTable(rows)

	if table.Title != "Active Complaints" {
		t.Errorf("Title = %q, want %q", table.Title, "Active Complaints")
	}
	wantColumns := []string{"complaint_id", "resident_name", "category_name", "title", "submission_date", "status"}
	if len(table.Columns) != len(wantColumns) {
		t.Fatalf("Columns = %v, want %v", table.Columns, wantColumns)
	}
	for i, col := range wantColumns {
		if table.Columns[i] != col {
			t.Errorf("Columns[%d] = %q, want %q", i, table.Columns[i], col)
		}
	}
	if len(table.Rows) != 1 {
		t.Fatalf("Rows = %d, want 1", len(table.Rows))
	}
	if table.Rows[0][0] != "1" || table.Rows[0][5] != "Submitted" {
		t.Errorf("Row = %v", table.Rows[0])
	}
}

func TestResolutionStatisticsTableFormatsRate(t *testing.T) {
	rows := []reports.CategoryStats{
		{CategoryName: "Pothole", GroupStats: reports.GroupStats{Total: 3, Resolved: 1, InProgress: 1, Submitted: 1, ResolutionRate: 33.33}},
	}

	table := resolutionStatisticsTable(rows)

	if len(table.Rows) != 1 {
		t.Fatalf("Rows = %d, want 1", len(table.Rows))
	}
	if got := table.Rows[0][5]; got != "33.33" {
		t.Errorf("resolution_rate = %q, want %q", got, "33.33")
	}
}

func TestTopCategoriesTableFormatsPercentage(t *testing.T) {
	rows := []reports.CategoryShare{
		{CategoryName: "Pothole", Count: 2, Percentage: 50.0},
	}

	table := topCategoriesTable(rows)

	if got := table.Rows[0][2]; got != "50.00" {
		t.Errorf("percentage = %q, want %q", got, "50.00")
	}
}

func TestWriteComplaintDetails(t *testing.T) {
	detail := &reports.ComplaintDetail{
		ID:             7,
		ResidentName:   "Alice Brown",
		CategoryName:   "Pothole",
		Title:          "Hole on Main St",
		Description:    "Deep pothole",
		SubmissionDate: "2024-01-01",
	}

	var buf bytes.Buffer
	writeComplaintDetails(&buf, detail)
	out := buf.String()

	for _, want := range []string{
		"COMPLAINT DETAILS",
		"ID: 7",
		"Resident: Alice Brown",
		"Category: Pothole",
		"Title: Hole on Main St",
		"Description: Deep pothole",
		"Submitted: 2024-01-01",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Details output missing %q, got:\n%s", want, out)
		}
	}
}

func TestTimelineTable(t *testing.T) {
	events := []reports.TimelineEvent{
		{Status: "Submitted", StatusDate: "2024-01-01"},
		{Status: "Resolved", StatusDate: "2024-01-10"},
	}

	table := timelineTable(7, events)

	if table.Title != "Status Timeline for Complaint 7" {
		t.Errorf("Title = %q", table.Title)
	}
	if len(table.Rows) != 2 || table.Rows[0][0] != "Submitted" || table.Rows[1][0] != "Resolved" {
		t.Errorf("Rows = %v", table.Rows)
	}
}
