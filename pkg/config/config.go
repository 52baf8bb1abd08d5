// Package config loads and validates application configuration from YAML files
// with environment-variable overrides. It provides typed structs for every
// subsystem (Indexer, Searcher, Logging, Metrics).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Indexer  IndexerConfig  `yaml:"indexer"`
	Searcher SearcherConfig `yaml:"searcher"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// IndexerConfig holds the build-phase inputs and the on-disk index layout.
type IndexerConfig struct {
	CorpusPath        string `yaml:"corpusPath"`
	DataDir           string `yaml:"dataDir"`
	PostingsFile      string `yaml:"postingsFile"`
	DictionaryFile    string `yaml:"dictionaryFile"`
	TruncateLongTerms bool   `yaml:"truncateLongTerms"`
}

// PostingsPath returns the full path of the binary postings file.
func (c IndexerConfig) PostingsPath() string {
	return filepath.Join(c.DataDir, c.PostingsFile)
}

// DictionaryPath returns the full path of the dictionary file.
func (c IndexerConfig) DictionaryPath() string {
	return filepath.Join(c.DataDir, c.DictionaryFile)
}

// SearcherConfig controls the scoring phase: query batch location, run
// output, ranking depth, and per-run parallelism.
type SearcherConfig struct {
	QueryPath            string `yaml:"queryPath"`
	OutputPath           string `yaml:"outputPath"`
	TopK                 int    `yaml:"topK"`
	RunTag               string `yaml:"runTag"`
	MaxConcurrentQueries int    `yaml:"maxConcurrentQueries"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. It returns a Config populated with sensible defaults for any
// missing values.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Indexer: IndexerConfig{
			CorpusPath:        "data/corpus.txt",
			DataDir:           "data/index",
			PostingsFile:      "inverted-file.bin",
			DictionaryFile:    "dictionary.dat",
			TruncateLongTerms: false,
		},
		Searcher: SearcherConfig{
			QueryPath:            "data/topics.txt",
			OutputPath:           "data/ranked-results.txt",
			TopK:                 50,
			RunTag:               "cosine",
			MaxConcurrentQueries: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
		},
	}
}

// applyEnvOverrides reads RE_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RE_CORPUS_PATH"); v != "" {
		cfg.Indexer.CorpusPath = v
	}
	if v := os.Getenv("RE_DATA_DIR"); v != "" {
		cfg.Indexer.DataDir = v
	}
	if v := os.Getenv("RE_TRUNCATE_LONG_TERMS"); v != "" {
		if truncate, err := strconv.ParseBool(v); err == nil {
			cfg.Indexer.TruncateLongTerms = truncate
		}
	}
	if v := os.Getenv("RE_QUERY_PATH"); v != "" {
		cfg.Searcher.QueryPath = v
	}
	if v := os.Getenv("RE_OUTPUT_PATH"); v != "" {
		cfg.Searcher.OutputPath = v
	}
	if v := os.Getenv("RE_RUN_TAG"); v != "" {
		cfg.Searcher.RunTag = v
	}
	if v := os.Getenv("RE_TOP_K"); v != "" {
		if topK, err := strconv.Atoi(v); err == nil {
			cfg.Searcher.TopK = topK
		}
	}
	if v := os.Getenv("RE_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("RE_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("RE_METRICS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.Port = port
		}
	}
}
