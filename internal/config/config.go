// Package config provides configuration management for the harvester.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingSearchURL    = errors.New("search.base_url is required")
	ErrMissingDecisionsURL = errors.New("search.decisions_base_url is required")
	ErrInvalidRetryDelay   = errors.New("retry_delay_sec must be non-negative")
	ErrInvalidBatchSize    = errors.New("ingest.batch_size must be at least 1")
	ErrMissingDownloadDir  = errors.New("ingest.download_dir is required")
	ErrMissingMetadataFile = errors.New("ingest.metadata_file is required")
	ErrMissingDatasetFile  = errors.New("ingest.dataset_file is required")
	ErrMissingOutputFile   = errors.New("validation.output_file is required")
	ErrInvalidIDPattern    = errors.New("validation.id_pattern is not a valid regex")
	ErrInvalidLogLevel     = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Config represents the complete harvester configuration.
type Config struct {
	Search     SearchConfig     `yaml:"search"`
	Ingest     IngestConfig     `yaml:"ingest"`
	Validation ValidationConfig `yaml:"validation"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// SearchConfig contains decision-index settings.
type SearchConfig struct {
	BaseURL          string `yaml:"base_url"`
	DecisionsBaseURL string `yaml:"decisions_base_url"`
	RetryDelaySec    int    `yaml:"retry_delay_sec"`
}

// IngestConfig contains batch pipeline settings.
type IngestConfig struct {
	BatchSize     int    `yaml:"batch_size"`
	DownloadDir   string `yaml:"download_dir"`
	MetadataFile  string `yaml:"metadata_file"`
	DatasetFile   string `yaml:"dataset_file"`
	RetryDelaySec int    `yaml:"retry_delay_sec"`
}

// ValidationConfig contains validated-dataset settings.
type ValidationConfig struct {
	OutputFile string `yaml:"output_file"`
	IDPattern  string `yaml:"id_pattern"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the configuration used when no file is provided.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			BaseURL:          "https://www.financial-ombudsman.org.uk/decisions-case-studies/ombudsman-decisions/search",
			DecisionsBaseURL: "https://www.financial-ombudsman.org.uk/",
			RetryDelaySec:    5,
		},
		Ingest: IngestConfig{
			BatchSize:     100,
			DownloadDir:   "decisions",
			MetadataFile:  "metadata.csv",
			DatasetFile:   "dataset.csv",
			RetryDelaySec: 5,
		},
		Validation: ValidationConfig{
			OutputFile: "final_dataset.csv",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from a YAML file.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Search.BaseURL == "" {
		return ErrMissingSearchURL
	}

	if c.Search.DecisionsBaseURL == "" {
		return ErrMissingDecisionsURL
	}

	if c.Search.RetryDelaySec < 0 || c.Ingest.RetryDelaySec < 0 {
		return ErrInvalidRetryDelay
	}

	if c.Ingest.BatchSize < 1 {
		return ErrInvalidBatchSize
	}

	if c.Ingest.DownloadDir == "" {
		return ErrMissingDownloadDir
	}

	if c.Ingest.MetadataFile == "" {
		return ErrMissingMetadataFile
	}

	if c.Ingest.DatasetFile == "" {
		return ErrMissingDatasetFile
	}

	if c.Validation.OutputFile == "" {
		return ErrMissingOutputFile
	}

	if c.Validation.IDPattern != "" {
		if _, err := regexp.Compile(c.Validation.IDPattern); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidIDPattern, err)
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

// SearchRetryDelay returns the fixed delay before re-attempting a failed
// search page.
func (c *Config) SearchRetryDelay() time.Duration {
	return time.Duration(c.Search.RetryDelaySec) * time.Second
}

// FetchRetryDelay returns the fixed delay before re-attempting a failed
// document fetch.
func (c *Config) FetchRetryDelay() time.Duration {
	return time.Duration(c.Ingest.RetryDelaySec) * time.Second
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{BatchSize: %d, MetadataFile: %s, DatasetFile: %s}",
		c.Ingest.BatchSize,
		c.Ingest.MetadataFile,
		c.Ingest.DatasetFile,
	)
}
