// Package reports defines the catalog of read queries served by the menu.
//
// Every status-dependent report joins the latest_status view instead of
// re-deriving the window query, so all ten reports share one resolution and
// tie-break rule. Complaints with no status events are absent from the view
// and therefore excluded from status-dependent reports.
package reports

import (
	"database/sql"
	"fmt"

	apperrors "github.com/Tian-Jacobs/Community-Services-Dashboard/internal/errors"
	"github.com/Tian-Jacobs/Community-Services-Dashboard/internal/storage"
)

// DefaultOverdueDays is the age threshold for the overdue report when no
// configuration overrides it
const DefaultOverdueDays = 30

// StatusResolved is the terminal status label; complaints whose current
// status equals it are not active
const StatusResolved = "Resolved"

// Catalog runs the report queries against one store session
type Catalog struct {
	db          *storage.DB
	overdueDays int
}

// NewCatalog creates a report catalog over the given store
func NewCatalog(db *storage.DB, overdueDays int) *Catalog {
	if overdueDays <= 0 {
		overdueDays = DefaultOverdueDays
	}
	return &Catalog{db: db, overdueDays: overdueDays}
}

func queryErr(report string, err error) error {
	return apperrors.New(apperrors.QueryFailed, report+" query failed", err)
}

// ComplaintSummary is the row shape shared by the active-complaints and
// complaints-by-ward reports
type ComplaintSummary struct {
	ID             int64
	ResidentName   string
	CategoryName   string
	Title          string
	SubmissionDate string
	Status         string
}

// ActiveComplaints returns every complaint whose current status is not
// Resolved, newest submissions first.
func (c *Catalog) ActiveComplaints() ([]ComplaintSummary, error) {
	rows, err := c.db.Query(`
		SELECT c.complaint_id,
		       r.first_name || ' ' || r.last_name AS resident_name,
		       sc.category_name,
		       c.title,
		       c.submission_date,
		       ls.status
		FROM complaints c
		JOIN residents r ON c.resident_id = r.resident_id
		JOIN service_categories sc ON c.category_id = sc.category_id
		JOIN latest_status ls ON c.complaint_id = ls.complaint_id
		WHERE ls.status != ?
		ORDER BY c.submission_date DESC
	`, StatusResolved)
	if err != nil {
		return nil, queryErr("active complaints", err)
	}
	defer rows.Close()

	return scanComplaintSummaries(rows, "active complaints")
}

// ComplaintsByWard returns complaints filed by residents of the given ward,
// newest submissions first. An unknown ward yields an empty result.
func (c *Catalog) ComplaintsByWard(ward int64) ([]ComplaintSummary, error) {
	rows, err := c.db.Query(`
		SELECT c.complaint_id,
		       r.first_name || ' ' || r.last_name AS resident_name,
		       sc.category_name,
		       c.title,
		       c.submission_date,
		       ls.status
		FROM complaints c
		JOIN residents r ON c.resident_id = r.resident_id
		JOIN service_categories sc ON c.category_id = sc.category_id
		JOIN latest_status ls ON c.complaint_id = ls.complaint_id
		WHERE r.ward = ?
		ORDER BY c.submission_date DESC
	`, ward)
	if err != nil {
		return nil, queryErr("complaints by ward", err)
	}
	defer rows.Close()

	return scanComplaintSummaries(rows, "complaints by ward")
}

func scanComplaintSummaries(rows *sql.Rows, report string) ([]ComplaintSummary, error) {
	var result []ComplaintSummary
	for rows.Next() {
		var s ComplaintSummary
		if err := rows.Scan(&s.ID, &s.ResidentName, &s.CategoryName, &s.Title, &s.SubmissionDate, &s.Status); err != nil {
			return nil, queryErr(report, err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// Category is a service category reference row, used to prompt for the
// complaints-by-category parameter
type Category struct {
	ID   int64
	Name string
}

// Categories lists all service categories ordered by id
func (c *Catalog) Categories() ([]Category, error) {
	rows, err := c.db.Query(`SELECT category_id, category_name FROM service_categories ORDER BY category_id`)
	if err != nil {
		return nil, queryErr("categories", err)
	}
	defer rows.Close()

	var result []Category
	for rows.Next() {
		var cat Category
		if err := rows.Scan(&cat.ID, &cat.Name); err != nil {
			return nil, queryErr("categories", err)
		}
		result = append(result, cat)
	}
	return result, rows.Err()
}

// CategoryComplaint is a complaint row within a single known category
type CategoryComplaint struct {
	ID             int64
	ResidentName   string
	Title          string
	SubmissionDate string
	Status         string
}

// ComplaintsByCategory returns complaints in the given category, newest
// submissions first. An unknown category yields an empty result.
func (c *Catalog) ComplaintsByCategory(categoryID int64) ([]CategoryComplaint, error) {
	rows, err := c.db.Query(`
		SELECT c.complaint_id,
		       r.first_name || ' ' || r.last_name AS resident_name,
		       c.title,
		       c.submission_date,
		       ls.status
		FROM complaints c
		JOIN residents r ON c.resident_id = r.resident_id
		JOIN latest_status ls ON c.complaint_id = ls.complaint_id
		WHERE c.category_id = ?
		ORDER BY c.submission_date DESC
	`, categoryID)
	if err != nil {
		return nil, queryErr("complaints by category", err)
	}
	defer rows.Close()

	var result []CategoryComplaint
	for rows.Next() {
		var cc CategoryComplaint
		if err := rows.Scan(&cc.ID, &cc.ResidentName, &cc.Title, &cc.SubmissionDate, &cc.Status); err != nil {
			return nil, queryErr("complaints by category", err)
		}
		result = append(result, cc)
	}
	return result, rows.Err()
}

// HistoryEntry is one complaint in a resident's filing history
type HistoryEntry struct {
	ID             int64
	CategoryName   string
	Title          string
	SubmissionDate string
	Status         string
}

// ResidentHistory returns every complaint filed by the given resident,
// newest submissions first. An unknown resident yields an empty result.
func (c *Catalog) ResidentHistory(residentID int64) ([]HistoryEntry, error) {
	rows, err := c.db.Query(`
		SELECT c.complaint_id,
		       sc.category_name,
		       c.title,
		       c.submission_date,
		       ls.status
		FROM complaints c
		JOIN service_categories sc ON c.category_id = sc.category_id
		JOIN latest_status ls ON c.complaint_id = ls.complaint_id
		WHERE c.resident_id = ?
		ORDER BY c.submission_date DESC
	`, residentID)
	if err != nil {
		return nil, queryErr("resident history", err)
	}
	defer rows.Close()

	var result []HistoryEntry
	for rows.Next() {
		var h HistoryEntry
		if err := rows.Scan(&h.ID, &h.CategoryName, &h.Title, &h.SubmissionDate, &h.Status); err != nil {
			return nil, queryErr("resident history", err)
		}
		result = append(result, h)
	}
	return result, rows.Err()
}

// ResidentName returns the display name of a resident; found is false when
// the id does not exist.
func (c *Catalog) ResidentName(residentID int64) (string, bool, error) {
	var name string
	err := c.db.QueryRow(
		`SELECT first_name || ' ' || last_name FROM residents WHERE resident_id = ?`, residentID,
	).Scan(&name)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, queryErr("resident name", err)
	}
	return name, true, nil
}

// GroupStats is the aggregate shape shared by the resolution-statistics and
// ward-performance reports: counts by current status plus the resolution
// rate as a percentage rounded to 2 decimals.
type GroupStats struct {
	Total          int64
	Resolved       int64
	InProgress     int64
	Submitted      int64
	ResolutionRate float64
}

// CategoryStats is GroupStats grouped by service category
type CategoryStats struct {
	CategoryName string
	GroupStats
}

// ResolutionStatistics aggregates complaints with a current status by
// category, largest groups first. Categories with no such complaints
// produce no row.
func (c *Catalog) ResolutionStatistics() ([]CategoryStats, error) {
	rows, err := c.db.Query(`
		SELECT sc.category_name,
		       COUNT(*) AS total_complaints,
		       SUM(CASE WHEN ls.status = 'Resolved' THEN 1 ELSE 0 END) AS resolved,
		       SUM(CASE WHEN ls.status = 'In Progress' THEN 1 ELSE 0 END) AS in_progress,
		       SUM(CASE WHEN ls.status = 'Submitted' THEN 1 ELSE 0 END) AS submitted,
		       ROUND(SUM(CASE WHEN ls.status = 'Resolved' THEN 1 ELSE 0 END) * 100.0 / COUNT(*), 2) AS resolution_rate
		FROM complaints c
		JOIN service_categories sc ON c.category_id = sc.category_id
		JOIN latest_status ls ON c.complaint_id = ls.complaint_id
		GROUP BY sc.category_id, sc.category_name
		ORDER BY total_complaints DESC
	`)
	if err != nil {
		return nil, queryErr("resolution statistics", err)
	}
	defer rows.Close()

	var result []CategoryStats
	for rows.Next() {
		var cs CategoryStats
		if err := rows.Scan(&cs.CategoryName, &cs.Total, &cs.Resolved, &cs.InProgress, &cs.Submitted, &cs.ResolutionRate); err != nil {
			return nil, queryErr("resolution statistics", err)
		}
		result = append(result, cs)
	}
	return result, rows.Err()
}

// OverdueComplaint is an unresolved complaint older than the overdue
// threshold, with its age in whole days
type OverdueComplaint struct {
	ID             int64
	ResidentName   string
	CategoryName   string
	Title          string
	SubmissionDate string
	Status         string
	DaysOld        int64
}

// OverdueComplaints returns unresolved complaints submitted more than the
// configured number of days ago, oldest first.
func (c *Catalog) OverdueComplaints() ([]OverdueComplaint, error) {
	rows, err := c.db.Query(`
		SELECT c.complaint_id,
		       r.first_name || ' ' || r.last_name AS resident_name,
		       sc.category_name,
		       c.title,
		       c.submission_date,
		       ls.status,
		       CAST(julianday('now') - julianday(c.submission_date) AS INTEGER) AS days_old
		FROM complaints c
		JOIN residents r ON c.resident_id = r.resident_id
		JOIN service_categories sc ON c.category_id = sc.category_id
		JOIN latest_status ls ON c.complaint_id = ls.complaint_id
		WHERE ls.status != ?
		  AND julianday('now') - julianday(c.submission_date) > ?
		ORDER BY days_old DESC
	`, StatusResolved, c.overdueDays)
	if err != nil {
		return nil, queryErr("overdue complaints", err)
	}
	defer rows.Close()

	var result []OverdueComplaint
	for rows.Next() {
		var oc OverdueComplaint
		if err := rows.Scan(&oc.ID, &oc.ResidentName, &oc.CategoryName, &oc.Title, &oc.SubmissionDate, &oc.Status, &oc.DaysOld); err != nil {
			return nil, queryErr("overdue complaints", err)
		}
		result = append(result, oc)
	}
	return result, rows.Err()
}

// StatusComplaint is a complaint currently in a given status, with the date
// that status was reached
type StatusComplaint struct {
	ID             int64
	ResidentName   string
	CategoryName   string
	Title          string
	SubmissionDate string
	LastStatusDate string
}

// ComplaintsByStatus returns complaints whose current status equals the
// given label exactly (case-sensitive), newest submissions first. An unknown
// label yields an empty result.
func (c *Catalog) ComplaintsByStatus(status string) ([]StatusComplaint, error) {
	rows, err := c.db.Query(`
		SELECT c.complaint_id,
		       r.first_name || ' ' || r.last_name AS resident_name,
		       sc.category_name,
		       c.title,
		       c.submission_date,
		       ls.status_date AS last_status_date
		FROM complaints c
		JOIN residents r ON c.resident_id = r.resident_id
		JOIN service_categories sc ON c.category_id = sc.category_id
		JOIN latest_status ls ON c.complaint_id = ls.complaint_id
		WHERE ls.status = ?
		ORDER BY c.submission_date DESC
	`, status)
	if err != nil {
		return nil, queryErr("complaints by status", err)
	}
	defer rows.Close()

	var result []StatusComplaint
	for rows.Next() {
		var sc StatusComplaint
		if err := rows.Scan(&sc.ID, &sc.ResidentName, &sc.CategoryName, &sc.Title, &sc.SubmissionDate, &sc.LastStatusDate); err != nil {
			return nil, queryErr("complaints by status", err)
		}
		result = append(result, sc)
	}
	return result, rows.Err()
}

// CategoryShare is a category's share of all complaints
type CategoryShare struct {
	CategoryName string
	Count        int64
	Percentage   float64
}

// TopCategories counts complaints per category and each category's
// percentage of all complaints (2 decimals), largest first. This report does
// not depend on current status, so complaints without status events count.
func (c *Catalog) TopCategories() ([]CategoryShare, error) {
	rows, err := c.db.Query(`
		SELECT sc.category_name,
		       COUNT(*) AS complaint_count,
		       ROUND(COUNT(*) * 100.0 / (SELECT COUNT(*) FROM complaints), 2) AS percentage
		FROM complaints c
		JOIN service_categories sc ON c.category_id = sc.category_id
		GROUP BY sc.category_id, sc.category_name
		ORDER BY complaint_count DESC
	`)
	if err != nil {
		return nil, queryErr("top categories", err)
	}
	defer rows.Close()

	var result []CategoryShare
	for rows.Next() {
		var share CategoryShare
		if err := rows.Scan(&share.CategoryName, &share.Count, &share.Percentage); err != nil {
			return nil, queryErr("top categories", err)
		}
		result = append(result, share)
	}
	return result, rows.Err()
}

// WardStats is GroupStats grouped by ward
type WardStats struct {
	Ward int64
	GroupStats
}

// WardPerformance aggregates complaints with a current status by the filing
// resident's ward, largest groups first.
func (c *Catalog) WardPerformance() ([]WardStats, error) {
	rows, err := c.db.Query(`
		SELECT r.ward,
		       COUNT(*) AS total_complaints,
		       SUM(CASE WHEN ls.status = 'Resolved' THEN 1 ELSE 0 END) AS resolved,
		       SUM(CASE WHEN ls.status = 'In Progress' THEN 1 ELSE 0 END) AS in_progress,
		       SUM(CASE WHEN ls.status = 'Submitted' THEN 1 ELSE 0 END) AS submitted,
		       ROUND(SUM(CASE WHEN ls.status = 'Resolved' THEN 1 ELSE 0 END) * 100.0 / COUNT(*), 2) AS resolution_rate
		FROM complaints c
		JOIN residents r ON c.resident_id = r.resident_id
		JOIN latest_status ls ON c.complaint_id = ls.complaint_id
		GROUP BY r.ward
		ORDER BY total_complaints DESC
	`)
	if err != nil {
		return nil, queryErr("ward performance", err)
	}
	defer rows.Close()

	var result []WardStats
	for rows.Next() {
		var ws WardStats
		if err := rows.Scan(&ws.Ward, &ws.Total, &ws.Resolved, &ws.InProgress, &ws.Submitted, &ws.ResolutionRate); err != nil {
			return nil, queryErr("ward performance", err)
		}
		result = append(result, ws)
	}
	return result, rows.Err()
}

// ComplaintDetail is the header section of the complaint-timeline report
type ComplaintDetail struct {
	ID             int64
	ResidentName   string
	CategoryName   string
	Title          string
	Description    string
	SubmissionDate string
}

// TimelineEvent is one entry of a complaint's status history
type TimelineEvent struct {
	Status     string
	StatusDate string
}

// ComplaintTimeline returns a complaint's detail row and its full status
// history in chronological order. When the id does not exist it returns a
// NotFound error and never runs the timeline query.
func (c *Catalog) ComplaintTimeline(complaintID int64) (*ComplaintDetail, []TimelineEvent, error) {
	var detail ComplaintDetail
	var description sql.NullString
	err := c.db.QueryRow(`
		SELECT c.complaint_id,
		       r.first_name || ' ' || r.last_name AS resident_name,
		       sc.category_name,
		       c.title,
		       c.description,
		       c.submission_date
		FROM complaints c
		JOIN residents r ON c.resident_id = r.resident_id
		JOIN service_categories sc ON c.category_id = sc.category_id
		WHERE c.complaint_id = ?
	`, complaintID).Scan(&detail.ID, &detail.ResidentName, &detail.CategoryName, &detail.Title, &description, &detail.SubmissionDate)
	if err == sql.ErrNoRows {
		return nil, nil, apperrors.New(apperrors.NotFound,
			fmt.Sprintf("no complaint found with ID %d", complaintID), nil)
	}
	if err != nil {
		return nil, nil, queryErr("complaint timeline", err)
	}
	detail.Description = description.String

	rows, err := c.db.Query(`
		SELECT status, status_date
		FROM status_logs
		WHERE complaint_id = ?
		ORDER BY status_date ASC
	`, complaintID)
	if err != nil {
		return nil, nil, queryErr("complaint timeline", err)
	}
	defer rows.Close()

	var events []TimelineEvent
	for rows.Next() {
		var e TimelineEvent
		if err := rows.Scan(&e.Status, &e.StatusDate); err != nil {
			return nil, nil, queryErr("complaint timeline", err)
		}
		events = append(events, e)
	}
	return &detail, events, rows.Err()
}
