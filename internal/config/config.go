package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ConfigDirName is the directory holding config.json, relative to the working directory
const ConfigDirName = ".complaints"

// Config represents the complete dashboard configuration
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	// DatabasePath is the SQLite file holding the complaints tables
	DatabasePath string `json:"databasePath" mapstructure:"databasePath"`

	Sources SourcesConfig `json:"sources" mapstructure:"sources"`
	Reports ReportsConfig `json:"reports" mapstructure:"reports"`
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// SourcesConfig holds the paths of the four delimited data sources.
// Missing files are skipped at ingest time, so all paths are best-effort.
type SourcesConfig struct {
	Residents  string `json:"residents" mapstructure:"residents"`
	Categories string `json:"categories" mapstructure:"categories"`
	Complaints string `json:"complaints" mapstructure:"complaints"`
	StatusLogs string `json:"statusLogs" mapstructure:"statusLogs"`
}

// ReportsConfig contains report tuning knobs
type ReportsConfig struct {
	// OverdueDays is the age threshold for the overdue-complaints report
	OverdueDays int `json:"overdueDays" mapstructure:"overdueDays"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:      1,
		DatabasePath: "complaints.db",
		Sources: SourcesConfig{
			Residents:  "residents.csv",
			Categories: "service_categories.csv",
			Complaints: "complaints.csv",
			StatusLogs: "status_logs.csv",
		},
		Reports: ReportsConfig{
			OverdueDays: 30,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from <workDir>/.complaints/config.json.
// Values can be overridden through COMPLAINTS_* environment variables
// (e.g. COMPLAINTS_DATABASEPATH); a .env file in the working directory is
// honored when present.
func LoadConfig(workDir string) (*Config, error) {
	// Best-effort: a missing .env is the normal case
	_ = godotenv.Load(filepath.Join(workDir, ".env"))

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("version", defaults.Version)
	v.SetDefault("databasePath", defaults.DatabasePath)
	v.SetDefault("sources.residents", defaults.Sources.Residents)
	v.SetDefault("sources.categories", defaults.Sources.Categories)
	v.SetDefault("sources.complaints", defaults.Sources.Complaints)
	v.SetDefault("sources.statusLogs", defaults.Sources.StatusLogs)
	v.SetDefault("reports.overdueDays", defaults.Reports.OverdueDays)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.level", defaults.Logging.Level)

	v.SetEnvPrefix("COMPLAINTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(workDir, ConfigDirName))

	if err := v.ReadInConfig(); err != nil {
		// If config doesn't exist, defaults (plus env) still apply
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to <workDir>/.complaints/config.json
func (c *Config) Save(workDir string) error {
	dir := filepath.Join(workDir, ConfigDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return &ConfigError{Field: "databasePath", Message: "must not be empty"}
	}
	if c.Reports.OverdueDays <= 0 {
		return &ConfigError{Field: "reports.overdueDays", Message: "must be positive"}
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ConfigError{Field: "logging.level", Message: "must be one of debug, info, warn, error"}
	}
	switch c.Logging.Format {
	case "human", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: "must be human or json"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
