package reports

import (
	"database/sql"

	apperrors "github.com/Tian-Jacobs/Community-Services-Dashboard/internal/errors"
)

// CurrentStatus is a complaint's resolved state: the status event with the
// maximum status_date. When two events share the maximum date, the one with
// the highest log_id wins. Both rules are encoded once, in the latest_status
// view; this type and its accessors are the Go-side face of that view.
type CurrentStatus struct {
	Status     string
	StatusDate string
}

// CurrentStatusOf resolves the current status of a single complaint.
// The second return value is false when the complaint has no status events
// (or does not exist); such complaints have no current status at all.
func (c *Catalog) CurrentStatusOf(complaintID int64) (CurrentStatus, bool, error) {
	var cs CurrentStatus
	err := c.db.QueryRow(`
		SELECT status, status_date
		FROM latest_status
		WHERE complaint_id = ?
	`, complaintID).Scan(&cs.Status, &cs.StatusDate)
	if err == sql.ErrNoRows {
		return CurrentStatus{}, false, nil
	}
	if err != nil {
		return CurrentStatus{}, false, apperrors.New(apperrors.QueryFailed, "current status lookup failed", err)
	}
	return cs, true, nil
}

// CurrentStatuses resolves the current status of every complaint that has
// at least one status event.
func (c *Catalog) CurrentStatuses() (map[int64]CurrentStatus, error) {
	rows, err := c.db.Query(`
		SELECT complaint_id, status, status_date
		FROM latest_status
	`)
	if err != nil {
		return nil, apperrors.New(apperrors.QueryFailed, "current status query failed", err)
	}
	defer rows.Close()

	result := make(map[int64]CurrentStatus)
	for rows.Next() {
		var id int64
		var cs CurrentStatus
		if err := rows.Scan(&id, &cs.Status, &cs.StatusDate); err != nil {
			return nil, apperrors.New(apperrors.QueryFailed, "current status scan failed", err)
		}
		result[id] = cs
	}
	return result, rows.Err()
}
