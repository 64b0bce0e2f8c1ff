package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Tian-Jacobs/Community-Services-Dashboard/internal/config"
	"github.com/Tian-Jacobs/Community-Services-Dashboard/internal/ingest"
	"github.com/Tian-Jacobs/Community-Services-Dashboard/internal/logging"
	"github.com/Tian-Jacobs/Community-Services-Dashboard/internal/reports"
	"github.com/Tian-Jacobs/Community-Services-Dashboard/internal/storage"
	"github.com/Tian-Jacobs/Community-Services-Dashboard/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "complaints",
	Short: "Community Services Dashboard - municipal complaints reporting",
	Long: `The Community Services Dashboard loads municipal complaints data
(residents, service categories, complaints, status history) from delimited
files into a local SQLite store and serves an interactive menu of reports.`,
	Version:       version.Version,
	RunE:          runDashboard,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("Community Services Dashboard version {{.Version}}\n")
}

func runDashboard(cmd *cobra.Command, args []string) error {
	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to resolve working directory: %w", err)
	}

	cfg, err := config.LoadConfig(workDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.NewLogger(logging.Config{
		Format: logging.Format(cfg.Logging.Format),
		Level:  logging.LogLevel(cfg.Logging.Level),
	})

	fmt.Println("Welcome to the Community Services Dashboard!")
	fmt.Println("Initializing database...")

	db, err := storage.Open(cfg.DatabasePath, logger)
	if err != nil {
		return err
	}
	// The session must be released on every exit path
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	// A user interrupt ends the loop gracefully after releasing the session
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		fmt.Println("\n\nExiting...")
		_ = db.Close()
		os.Exit(0)
	}()

	job := ingest.NewJob(db, logger, cfg.Sources)
	summary := job.Run()
	logger.Info("Database initialized", map[string]interface{}{
		"run_id":  summary.RunID,
		"loaded":  len(summary.Loaded),
		"skipped": len(summary.Skipped),
		"failed":  len(summary.Failed),
	})
	fmt.Println("Database initialized successfully!")

	catalog := reports.NewCatalog(db, cfg.Reports.OverdueDays)
	m := newMenu(catalog, cfg.Reports.OverdueDays, os.Stdin, os.Stdout)
	return m.run()
}
