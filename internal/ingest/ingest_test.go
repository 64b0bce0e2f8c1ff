package ingest

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/Tian-Jacobs/Community-Services-Dashboard/internal/config"
	"github.com/Tian-Jacobs/Community-Services-Dashboard/internal/logging"
	"github.com/Tian-Jacobs/Community-Services-Dashboard/internal/storage"
)

func setupTestJob(t *testing.T) (*Job, *storage.DB, string) {
	t.Helper()

	tmpDir := t.TempDir()
	logger := logging.NewLogger(logging.Config{Level: logging.ErrorLevel, Output: io.Discard})

	db, err := storage.Open(filepath.Join(tmpDir, "complaints.db"), logger)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	sources := config.SourcesConfig{
		Residents:  filepath.Join(tmpDir, "residents.csv"),
		Categories: filepath.Join(tmpDir, "service_categories.csv"),
		Complaints: filepath.Join(tmpDir, "complaints.csv"),
		StatusLogs: filepath.Join(tmpDir, "status_logs.csv"),
	}

	return NewJob(db, logger, sources), db, tmpDir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func countRows(t *testing.T, db *storage.DB, table string) int {
	t.Helper()
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
		t.Fatalf("Count query on %s failed: %v", table, err)
	}
	return count
}

const residentsCSV = `resident_id;first_name;last_name;ward;email;phone
1;Alice;Brown;3;alice@example.com;555-0101
2;Bob;Green;5;;
`

const categoriesCSV = `category_id;category_name
1;Pothole
2;Streetlight
`

const complaintsCSV = `complaint_id;resident_id;category_id;title;description;submission_date
1;1;1;Hole on Main St;Deep pothole;2024-01-01
2;2;2;Dark corner;;2024-02-15
`

const statusLogsCSV = `log_id;complaint_id;status;status_date
1;1;Submitted;2024-01-01
2;1;Resolved;2024-01-10
3;2;Submitted;2024-02-15
`

func TestRunLoadsAllSources(t *testing.T) {
	job, db, tmpDir := setupTestJob(t)

	writeFile(t, filepath.Join(tmpDir, "residents.csv"), residentsCSV)
	writeFile(t, filepath.Join(tmpDir, "service_categories.csv"), categoriesCSV)
	writeFile(t, filepath.Join(tmpDir, "complaints.csv"), complaintsCSV)
	writeFile(t, filepath.Join(tmpDir, "status_logs.csv"), statusLogsCSV)

	summary := job.Run()

	if len(summary.Failed) != 0 {
		t.Fatalf("Unexpected failures: %v", summary.Failed)
	}
	if summary.RunID == "" {
		t.Error("Summary should carry a run id")
	}

	want := map[string]int{"residents": 2, "categories": 2, "complaints": 2, "status_logs": 3}
	for source, n := range want {
		if summary.Loaded[source] != n {
			t.Errorf("Loaded[%s] = %d, want %d", source, summary.Loaded[source], n)
		}
	}

	if got := countRows(t, db, "residents"); got != 2 {
		t.Errorf("residents rows = %d, want 2", got)
	}
	if got := countRows(t, db, "status_logs"); got != 3 {
		t.Errorf("status_logs rows = %d, want 3", got)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	job, db, tmpDir := setupTestJob(t)

	writeFile(t, filepath.Join(tmpDir, "residents.csv"), residentsCSV)
	writeFile(t, filepath.Join(tmpDir, "service_categories.csv"), categoriesCSV)
	writeFile(t, filepath.Join(tmpDir, "complaints.csv"), complaintsCSV)
	writeFile(t, filepath.Join(tmpDir, "status_logs.csv"), statusLogsCSV)

	job.Run()
	first := snapshotResidents(t, db)

	job.Run()
	second := snapshotResidents(t, db)

	if len(first) != len(second) {
		t.Fatalf("Row count changed after re-run: %d -> %d", len(first), len(second))
	}
	for id, row := range first {
		if second[id] != row {
			t.Errorf("Resident %d changed after re-run: %q -> %q", id, row, second[id])
		}
	}
	if got := countRows(t, db, "status_logs"); got != 3 {
		t.Errorf("status_logs rows after re-run = %d, want 3", got)
	}
}

func snapshotResidents(t *testing.T, db *storage.DB) map[int64]string {
	t.Helper()

	rows, err := db.Query(`SELECT resident_id, first_name || '|' || last_name || '|' || ward FROM residents`)
	if err != nil {
		t.Fatalf("Snapshot query failed: %v", err)
	}
	defer rows.Close()

	snapshot := make(map[int64]string)
	for rows.Next() {
		var id int64
		var row string
		if err := rows.Scan(&id, &row); err != nil {
			t.Fatalf("Scan failed: %v", err)
		}
		snapshot[id] = row
	}
	return snapshot
}

func TestRunUpsertsByIdentity(t *testing.T) {
	job, db, tmpDir := setupTestJob(t)

	writeFile(t, filepath.Join(tmpDir, "residents.csv"), residentsCSV)
	job.Run()

	// Same id, different ward: the record must be fully overwritten
	writeFile(t, filepath.Join(tmpDir, "residents.csv"),
		"resident_id;first_name;last_name;ward;email;phone\n1;Alice;Brown;7;alice@example.com;555-0101\n")
	job.Run()

	var ward int
	if err := db.QueryRow(`SELECT ward FROM residents WHERE resident_id = 1`).Scan(&ward); err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if ward != 7 {
		t.Errorf("ward = %d, want 7 after upsert", ward)
	}
	if got := countRows(t, db, "residents"); got != 2 {
		t.Errorf("residents rows = %d, want 2 (id 2 from first run retained)", got)
	}
}

func TestRunSkipsMissingSources(t *testing.T) {
	job, db, tmpDir := setupTestJob(t)

	// Only categories present
	writeFile(t, filepath.Join(tmpDir, "service_categories.csv"), categoriesCSV)

	summary := job.Run()

	if len(summary.Failed) != 0 {
		t.Fatalf("Missing files must not fail: %v", summary.Failed)
	}
	if len(summary.Skipped) != 3 {
		t.Errorf("Skipped = %v, want 3 skipped sources", summary.Skipped)
	}
	if summary.Loaded["categories"] != 2 {
		t.Errorf("Loaded[categories] = %d, want 2", summary.Loaded["categories"])
	}
	if got := countRows(t, db, "residents"); got != 0 {
		t.Errorf("residents rows = %d, want 0", got)
	}
}

func TestRunReadsGzipFallback(t *testing.T) {
	job, db, tmpDir := setupTestJob(t)

	f, err := os.Create(filepath.Join(tmpDir, "service_categories.csv.gz"))
	if err != nil {
		t.Fatalf("Failed to create gzip file: %v", err)
	}
	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte(categoriesCSV)); err != nil {
		t.Fatalf("Failed to write gzip content: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("Failed to close gzip writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Failed to close file: %v", err)
	}

	summary := job.Run()

	if summary.Loaded["categories"] != 2 {
		t.Errorf("Loaded[categories] = %d, want 2 from gzip fallback", summary.Loaded["categories"])
	}
	if got := countRows(t, db, "service_categories"); got != 2 {
		t.Errorf("service_categories rows = %d, want 2", got)
	}
}

func TestRunHeaderOrderIndependent(t *testing.T) {
	job, db, tmpDir := setupTestJob(t)

	// Columns shuffled relative to the table definition
	writeFile(t, filepath.Join(tmpDir, "service_categories.csv"),
		"category_name;category_id\nPothole;1\nStreetlight;2\n")

	summary := job.Run()

	if summary.Loaded["categories"] != 2 {
		t.Fatalf("Loaded[categories] = %d, want 2", summary.Loaded["categories"])
	}

	var name string
	if err := db.QueryRow(`SELECT category_name FROM service_categories WHERE category_id = 1`).Scan(&name); err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if name != "Pothole" {
		t.Errorf("category_name = %q, want %q", name, "Pothole")
	}
}

func TestRunFailsSourceWithMissingColumn(t *testing.T) {
	job, db, tmpDir := setupTestJob(t)

	writeFile(t, filepath.Join(tmpDir, "service_categories.csv"), "category_id;name\n1;Pothole\n")
	writeFile(t, filepath.Join(tmpDir, "residents.csv"), residentsCSV)

	summary := job.Run()

	if _, ok := summary.Failed["categories"]; !ok {
		t.Error("Source with missing column should be reported as failed")
	}
	// Other sources still load
	if summary.Loaded["residents"] != 2 {
		t.Errorf("Loaded[residents] = %d, want 2", summary.Loaded["residents"])
	}
	if got := countRows(t, db, "service_categories"); got != 0 {
		t.Errorf("service_categories rows = %d, want 0 after failed source", got)
	}
}

func TestRunEmptyFileLoadsNothing(t *testing.T) {
	job, db, tmpDir := setupTestJob(t)

	writeFile(t, filepath.Join(tmpDir, "service_categories.csv"), "")

	summary := job.Run()

	if len(summary.Failed) != 0 {
		t.Fatalf("Empty file must not fail: %v", summary.Failed)
	}
	if summary.Loaded["categories"] != 0 {
		t.Errorf("Loaded[categories] = %d, want 0", summary.Loaded["categories"])
	}
	if got := countRows(t, db, "service_categories"); got != 0 {
		t.Errorf("service_categories rows = %d, want 0", got)
	}
}
