// Package config loads tool configuration from an optional YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"pdbselect/internal/model"
	"pdbselect/internal/source"
)

// DefaultRegistryFile is where evaluations persist unless configured
// otherwise.
const DefaultRegistryFile = "data/processed/protein_registry.json"

// Config is the full tool configuration. Fields missing from the file keep
// their defaults, including nested criteria keys.
type Config struct {
	RegistryFile        string         `yaml:"registry_file"`
	CacheDir            string         `yaml:"cache_dir"`
	HistoryDB           string         `yaml:"history_db"`
	DownloadURL         string         `yaml:"download_url"`
	FetchTimeoutSeconds int            `yaml:"fetch_timeout_seconds"`
	Criteria            model.Criteria `yaml:"criteria"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		RegistryFile:        DefaultRegistryFile,
		CacheDir:            source.DefaultCacheDir,
		DownloadURL:         source.DefaultBaseURL,
		FetchTimeoutSeconds: int(source.DefaultTimeout / time.Second),
		Criteria:            model.DefaultCriteria(),
	}
}

// Load reads the YAML file at path over the defaults. An empty path or an
// absent file yields the defaults; a file that exists but cannot be read
// or parsed is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// FetchTimeout returns the configured fetch timeout as a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}
