package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	apperrors "github.com/Tian-Jacobs/Community-Services-Dashboard/internal/errors"
	"github.com/Tian-Jacobs/Community-Services-Dashboard/internal/reports"
)

// menu drives the interactive report loop. Parameter parse failures are
// handled locally and redisplay the menu; store failures propagate to the
// caller, which releases the session.
type menu struct {
	catalog     *reports.Catalog
	overdueDays int
	in          *bufio.Reader
	out         io.Writer
}

func newMenu(catalog *reports.Catalog, overdueDays int, in io.Reader, out io.Writer) *menu {
	if overdueDays <= 0 {
		overdueDays = reports.DefaultOverdueDays
	}
	return &menu{
		catalog:     catalog,
		overdueDays: overdueDays,
		in:          bufio.NewReader(in),
		out:         out,
	}
}

func (m *menu) run() error {
	for {
		m.printMenu()

		choice, err := m.prompt("\nEnter your choice (0-10): ")
		if err == io.EOF {
			fmt.Fprintln(m.out, "Goodbye!")
			return nil
		}
		if err != nil {
			return err
		}

		if choice == "0" {
			fmt.Fprintln(m.out, "Goodbye!")
			return nil
		}

		if err := m.dispatch(choice); err != nil {
			// Input ran out mid-prompt; treat like a normal exit
			if err == io.EOF {
				fmt.Fprintln(m.out, "\nGoodbye!")
				return nil
			}
			return err
		}

		fmt.Fprint(m.out, "\nPress Enter to continue...")
		if _, err := m.in.ReadString('\n'); err != nil {
			fmt.Fprintln(m.out)
			return nil
		}
	}
}

func (m *menu) dispatch(choice string) error {
	switch choice {
	case "1":
		return m.activeComplaints()
	case "2":
		return m.complaintsByCategory()
	case "3":
		return m.complaintsByWard()
	case "4":
		return m.residentHistory()
	case "5":
		return m.resolutionStatistics()
	case "6":
		return m.overdueComplaints()
	case "7":
		return m.complaintsByStatus()
	case "8":
		return m.topCategories()
	case "9":
		return m.wardPerformance()
	case "10":
		return m.complaintTimeline()
	default:
		fmt.Fprintln(m.out, "Invalid choice. Please enter a number between 0-10.")
		return nil
	}
}

func (m *menu) printMenu() {
	banner := strings.Repeat("=", 60)
	fmt.Fprintln(m.out, "\n"+banner)
	fmt.Fprintln(m.out, "COMMUNITY SERVICES DASHBOARD - QUERY MENU")
	fmt.Fprintln(m.out, banner)
	fmt.Fprintln(m.out, "1.  View all active complaints")
	fmt.Fprintln(m.out, "2.  View complaints by category")
	fmt.Fprintln(m.out, "3.  View complaints by ward")
	fmt.Fprintln(m.out, "4.  View resident complaint history")
	fmt.Fprintln(m.out, "5.  View complaint resolution statistics")
	fmt.Fprintf(m.out, "6.  View overdue complaints (submitted over %d days ago)\n", m.overdueDays)
	fmt.Fprintln(m.out, "7.  View complaints by status")
	fmt.Fprintln(m.out, "8.  View top complaint categories")
	fmt.Fprintln(m.out, "9.  View ward performance summary")
	fmt.Fprintln(m.out, "10. View complaint timeline for specific complaint")
	fmt.Fprintln(m.out, "0.  Exit")
	fmt.Fprintln(m.out, banner)
}

// prompt reads one trimmed line of input
func (m *menu) prompt(label string) (string, error) {
	fmt.Fprint(m.out, label)
	line, err := m.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptID reads a numeric parameter; non-numeric input yields an
// InvalidInput error handled by the calling report
func (m *menu) promptID(label string) (int64, error) {
	raw, err := m.prompt(label)
	if err != nil {
		return 0, err
	}
	id, convErr := strconv.ParseInt(raw, 10, 64)
	if convErr != nil {
		return 0, apperrors.New(apperrors.InvalidInput, "not a number: "+raw, convErr)
	}
	return id, nil
}

func (m *menu) activeComplaints() error {
	rows, err := m.catalog.ActiveComplaints()
	if err != nil {
		return err
	}
	activeComplaintsTable(rows).Render(m.out)
	return nil
}

func (m *menu) complaintsByCategory() error {
	categories, err := m.catalog.Categories()
	if err != nil {
		return err
	}
	fmt.Fprintln(m.out, "\nAvailable categories:")
	for _, cat := range categories {
		fmt.Fprintf(m.out, "%d. %s\n", cat.ID, cat.Name)
	}

	categoryID, err := m.promptID("\nEnter category ID: ")
	if err != nil {
		if apperrors.CodeOf(err) == apperrors.InvalidInput {
			fmt.Fprintln(m.out, "Invalid category ID entered.")
			return nil
		}
		return err
	}

	rows, err := m.catalog.ComplaintsByCategory(categoryID)
	if err != nil {
		return err
	}

	name := "Unknown"
	for _, cat := range categories {
		if cat.ID == categoryID {
			name = cat.Name
			break
		}
	}
	categoryComplaintsTable(name, rows).Render(m.out)
	return nil
}

func (m *menu) complaintsByWard() error {
	ward, err := m.promptID("Enter ward number: ")
	if err != nil {
		if apperrors.CodeOf(err) == apperrors.InvalidInput {
			fmt.Fprintln(m.out, "Invalid ward number entered.")
			return nil
		}
		return err
	}

	rows, err := m.catalog.ComplaintsByWard(ward)
	if err != nil {
		return err
	}
	wardComplaintsTable(ward, rows).Render(m.out)
	return nil
}

func (m *menu) residentHistory() error {
	residentID, err := m.promptID("Enter resident ID: ")
	if err != nil {
		if apperrors.CodeOf(err) == apperrors.InvalidInput {
			fmt.Fprintln(m.out, "Invalid resident ID entered.")
			return nil
		}
		return err
	}

	rows, err := m.catalog.ResidentHistory(residentID)
	if err != nil {
		return err
	}

	name, found, err := m.catalog.ResidentName(residentID)
	if err != nil {
		return err
	}
	if !found {
		name = fmt.Sprintf("Resident %d", residentID)
	}
	residentHistoryTable(name, rows).Render(m.out)
	return nil
}

func (m *menu) resolutionStatistics() error {
	rows, err := m.catalog.ResolutionStatistics()
	if err != nil {
		return err
	}
	resolutionStatisticsTable(rows).Render(m.out)
	return nil
}

func (m *menu) overdueComplaints() error {
	rows, err := m.catalog.OverdueComplaints()
	if err != nil {
		return err
	}
	overdueComplaintsTable(m.overdueDays, rows).Render(m.out)
	return nil
}

func (m *menu) complaintsByStatus() error {
	fmt.Fprintln(m.out, "\nAvailable statuses: Submitted, In Progress, Resolved")
	status, err := m.prompt("Enter status: ")
	if err != nil {
		return err
	}

	rows, err := m.catalog.ComplaintsByStatus(status)
	if err != nil {
		return err
	}
	statusComplaintsTable(status, rows).Render(m.out)
	return nil
}

func (m *menu) topCategories() error {
	rows, err := m.catalog.TopCategories()
	if err != nil {
		return err
	}
	topCategoriesTable(rows).Render(m.out)
	return nil
}

func (m *menu) wardPerformance() error {
	rows, err := m.catalog.WardPerformance()
	if err != nil {
		return err
	}
	wardPerformanceTable(rows).Render(m.out)
	return nil
}

func (m *menu) complaintTimeline() error {
	complaintID, err := m.promptID("Enter complaint ID: ")
	if err != nil {
		if apperrors.CodeOf(err) == apperrors.InvalidInput {
			fmt.Fprintln(m.out, "Invalid complaint ID entered.")
			return nil
		}
		return err
	}

	detail, events, err := m.catalog.ComplaintTimeline(complaintID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			fmt.Fprintf(m.out, "No complaint found with ID %d\n", complaintID)
			return nil
		}
		return err
	}

	writeComplaintDetails(m.out, detail)
	timelineTable(complaintID, events).Render(m.out)
	return nil
}
