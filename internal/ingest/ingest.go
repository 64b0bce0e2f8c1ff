// Package ingest loads the delimited data sources into the complaints store.
//
// Each source is best-effort: a missing file is skipped, a malformed file
// fails only that source, and re-running over identical inputs leaves the
// tables unchanged (INSERT OR REPLACE keyed on the identity column).
package ingest

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"

	"github.com/Tian-Jacobs/Community-Services-Dashboard/internal/config"
	apperrors "github.com/Tian-Jacobs/Community-Services-Dashboard/internal/errors"
	"github.com/Tian-Jacobs/Community-Services-Dashboard/internal/logging"
	"github.com/Tian-Jacobs/Community-Services-Dashboard/internal/storage"
)

// Delimiter used by all data sources
const Delimiter = ';'

// source binds a data file to its target table and column set.
// Header names must match the listed columns; column order in the file
// is irrelevant.
type source struct {
	name    string
	table   string
	columns []string
}

var sourceSpecs = []source{
	{
		name:    "residents",
		table:   "residents",
		columns: []string{"resident_id", "first_name", "last_name", "ward", "email", "phone"},
	},
	{
		name:    "categories",
		table:   "service_categories",
		columns: []string{"category_id", "category_name"},
	},
	{
		name:    "complaints",
		table:   "complaints",
		columns: []string{"complaint_id", "resident_id", "category_id", "title", "description", "submission_date"},
	},
	{
		name:    "status_logs",
		table:   "status_logs",
		columns: []string{"log_id", "complaint_id", "status", "status_date"},
	},
}

// Summary reports what a single ingestion run did
type Summary struct {
	RunID   string
	Loaded  map[string]int   // source name -> upserted record count
	Skipped []string         // sources whose files were absent
	Failed  map[string]error // sources that could not be loaded
}

// Job upserts the configured data sources into the store
type Job struct {
	db      *storage.DB
	logger  *logging.Logger
	sources config.SourcesConfig
}

// NewJob creates an ingestion job over the given store and source paths
func NewJob(db *storage.DB, logger *logging.Logger, sources config.SourcesConfig) *Job {
	return &Job{
		db:      db,
		logger:  logger,
		sources: sources,
	}
}

// Run loads every source that exists. Sources are processed in dependency
// order (residents and categories before complaints, complaints before
// status logs); a failing source does not abort the others.
func (j *Job) Run() Summary {
	summary := Summary{
		RunID:  uuid.New().String(),
		Loaded: make(map[string]int),
		Failed: make(map[string]error),
	}

	paths := map[string]string{
		"residents":   j.sources.Residents,
		"categories":  j.sources.Categories,
		"complaints":  j.sources.Complaints,
		"status_logs": j.sources.StatusLogs,
	}

	for _, spec := range sourceSpecs {
		path := paths[spec.name]

		reader, resolved, err := openSource(path)
		if err != nil {
			j.logger.Warn("Failed to open data source", map[string]interface{}{
				"run_id": summary.RunID,
				"source": spec.name,
				"path":   path,
				"error":  err.Error(),
			})
			summary.Failed[spec.name] = apperrors.New(apperrors.IngestFailed, "failed to open "+path, err)
			continue
		}
		if reader == nil {
			j.logger.Debug("Data source not found, skipping", map[string]interface{}{
				"run_id": summary.RunID,
				"source": spec.name,
				"path":   path,
			})
			summary.Skipped = append(summary.Skipped, spec.name)
			continue
		}

		count, err := j.loadSource(spec, reader)
		_ = reader.Close()
		if err != nil {
			j.logger.Warn("Failed to load data source", map[string]interface{}{
				"run_id": summary.RunID,
				"source": spec.name,
				"path":   resolved,
				"error":  err.Error(),
			})
			summary.Failed[spec.name] = apperrors.New(apperrors.IngestFailed, "failed to load "+resolved, err)
			continue
		}

		summary.Loaded[spec.name] = count
		j.logger.Info("Loaded data source", map[string]interface{}{
			"run_id":  summary.RunID,
			"source":  spec.name,
			"path":    resolved,
			"records": count,
		})
	}

	return summary
}

// openSource opens path, falling back to path+".gz" when the plain file is
// absent. Returns (nil, "", nil) when neither exists.
func openSource(path string) (io.ReadCloser, string, error) {
	candidates := []string{path}
	if !strings.HasSuffix(path, ".gz") {
		candidates = append(candidates, path+".gz")
	}

	for _, candidate := range candidates {
		f, err := os.Open(candidate)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, candidate, err
		}

		if strings.HasSuffix(candidate, ".gz") {
			gz, err := gzip.NewReader(f)
			if err != nil {
				_ = f.Close()
				return nil, candidate, err
			}
			return &gzipSource{gz: gz, file: f}, candidate, nil
		}
		return f, candidate, nil
	}

	return nil, "", nil
}

// gzipSource closes both the gzip stream and the underlying file
type gzipSource struct {
	gz   *gzip.Reader
	file *os.File
}

func (g *gzipSource) Read(p []byte) (int, error) { return g.gz.Read(p) }

func (g *gzipSource) Close() error {
	gzErr := g.gz.Close()
	fileErr := g.file.Close()
	if gzErr != nil {
		return gzErr
	}
	return fileErr
}

// loadSource parses one delimited file and upserts every record inside a
// single transaction. Field values pass through untransformed; the store's
// column affinity handles numeric coercion.
func (j *Job) loadSource(spec source, r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.Comma = Delimiter

	header, err := cr.Read()
	if err == io.EOF {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read header: %w", err)
	}

	// Map each wanted column to its position in the header
	positions := make([]int, len(spec.columns))
	for i, col := range spec.columns {
		positions[i] = -1
		for hi, name := range header {
			if strings.TrimSpace(name) == col {
				positions[i] = hi
				break
			}
		}
		if positions[i] == -1 {
			return 0, fmt.Errorf("missing column %q in header", col)
		}
	}

	upsert := fmt.Sprintf(
		"INSERT OR REPLACE INTO %s (%s) VALUES (%s)",
		spec.table,
		strings.Join(spec.columns, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(spec.columns)), ", "),
	)

	count := 0
	err = j.db.WithTx(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(upsert)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for {
			record, err := cr.Read()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return fmt.Errorf("record %d: %w", count+1, err)
			}

			args := make([]interface{}, len(positions))
			for i, pos := range positions {
				args[i] = record[pos]
			}
			if _, err := stmt.Exec(args...); err != nil {
				return fmt.Errorf("record %d: %w", count+1, err)
			}
			count++
		}
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}
