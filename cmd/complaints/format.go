package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Tian-Jacobs/Community-Services-Dashboard/internal/output"
	"github.com/Tian-Jacobs/Community-Services-Dashboard/internal/reports"
)

// Table builders: the one place typed report records become stringly rows.

func activeComplaintsTable(rows []reports.ComplaintSummary) output.Table {
	return complaintSummaryTable("Active Complaints", rows)
}

func wardComplaintsTable(ward int64, rows []reports.ComplaintSummary) output.Table {
	return complaintSummaryTable(fmt.Sprintf("Complaints for Ward %d", ward), rows)
}

func complaintSummaryTable(title string, rows []reports.ComplaintSummary) output.Table {
	t := output.Table{
		Title:   title,
		Columns: []string{"complaint_id", "resident_name", "category_name", "title", "submission_date", "status"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			strconv.FormatInt(r.ID, 10), r.ResidentName, r.CategoryName, r.Title, r.SubmissionDate, r.Status,
		})
	}
	return t
}

func categoryComplaintsTable(categoryName string, rows []reports.CategoryComplaint) output.Table {
	t := output.Table{
		Title:   "Complaints for " + categoryName,
		Columns: []string{"complaint_id", "resident_name", "title", "submission_date", "status"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			strconv.FormatInt(r.ID, 10), r.ResidentName, r.Title, r.SubmissionDate, r.Status,
		})
	}
	return t
}

func residentHistoryTable(residentName string, rows []reports.HistoryEntry) output.Table {
	t := output.Table{
		Title:   "Complaint History for " + residentName,
		Columns: []string{"complaint_id", "category_name", "title", "submission_date", "status"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			strconv.FormatInt(r.ID, 10), r.CategoryName, r.Title, r.SubmissionDate, r.Status,
		})
	}
	return t
}

func resolutionStatisticsTable(rows []reports.CategoryStats) output.Table {
	t := output.Table{
		Title:   "Complaint Resolution Statistics by Category",
		Columns: []string{"category_name", "total_complaints", "resolved", "in_progress", "submitted", "resolution_rate"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.CategoryName,
			strconv.FormatInt(r.Total, 10),
			strconv.FormatInt(r.Resolved, 10),
			strconv.FormatInt(r.InProgress, 10),
			strconv.FormatInt(r.Submitted, 10),
			output.FormatRate(r.ResolutionRate),
		})
	}
	return t
}

func overdueComplaintsTable(overdueDays int, rows []reports.OverdueComplaint) output.Table {
	t := output.Table{
		Title:   fmt.Sprintf("Overdue Complaints (Over %d Days)", overdueDays),
		Columns: []string{"complaint_id", "resident_name", "category_name", "title", "submission_date", "status", "days_old"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			strconv.FormatInt(r.ID, 10), r.ResidentName, r.CategoryName, r.Title,
			r.SubmissionDate, r.Status, strconv.FormatInt(r.DaysOld, 10),
		})
	}
	return t
}

func statusComplaintsTable(status string, rows []reports.StatusComplaint) output.Table {
	t := output.Table{
		Title:   "Complaints with Status: " + status,
		Columns: []string{"complaint_id", "resident_name", "category_name", "title", "submission_date", "last_status_date"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			strconv.FormatInt(r.ID, 10), r.ResidentName, r.CategoryName, r.Title,
			r.SubmissionDate, r.LastStatusDate,
		})
	}
	return t
}

func topCategoriesTable(rows []reports.CategoryShare) output.Table {
	t := output.Table{
		Title:   "Top Complaint Categories",
		Columns: []string{"category_name", "complaint_count", "percentage"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.CategoryName, strconv.FormatInt(r.Count, 10), output.FormatRate(r.Percentage),
		})
	}
	return t
}

func wardPerformanceTable(rows []reports.WardStats) output.Table {
	t := output.Table{
		Title:   "Ward Performance Summary",
		Columns: []string{"ward", "total_complaints", "resolved", "in_progress", "submitted", "resolution_rate"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			strconv.FormatInt(r.Ward, 10),
			strconv.FormatInt(r.Total, 10),
			strconv.FormatInt(r.Resolved, 10),
			strconv.FormatInt(r.InProgress, 10),
			strconv.FormatInt(r.Submitted, 10),
			output.FormatRate(r.ResolutionRate),
		})
	}
	return t
}

func timelineTable(complaintID int64, events []reports.TimelineEvent) output.Table {
	t := output.Table{
		Title:   fmt.Sprintf("Status Timeline for Complaint %d", complaintID),
		Columns: []string{"status", "status_date"},
	}
	for _, e := range events {
		t.Rows = append(t.Rows, []string{e.Status, e.StatusDate})
	}
	return t
}

// writeComplaintDetails renders the header section of the timeline report
func writeComplaintDetails(w io.Writer, detail *reports.ComplaintDetail) {
	banner := strings.Repeat("=", 60)
	fmt.Fprintf(w, "\n%s\n", banner)
	fmt.Fprintln(w, "COMPLAINT DETAILS")
	fmt.Fprintln(w, banner)
	fmt.Fprintf(w, "ID: %d\n", detail.ID)
	fmt.Fprintf(w, "Resident: %s\n", detail.ResidentName)
	fmt.Fprintf(w, "Category: %s\n", detail.CategoryName)
	fmt.Fprintf(w, "Title: %s\n", detail.Title)
	fmt.Fprintf(w, "Description: %s\n", detail.Description)
	fmt.Fprintf(w, "Submitted: %s\n", detail.SubmissionDate)
}
