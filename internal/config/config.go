// Package config loads the service catalog: the YAML file naming each
// scoring service endpoint with its credential, polling and blob settings.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"azmlclient/blob"
)

// DefaultPollIntervalSeconds is used when a service entry does not choose a
// poll interval.
const DefaultPollIntervalSeconds = 5

// Catalog is the parsed service catalog file.
type Catalog struct {
	LogLevel string             `yaml:"log_level"`
	Services map[string]Service `yaml:"services"`

	// Warnings collects non-fatal warnings generated during loading. These
	// are logged by the caller after the logger is initialised.
	Warnings []string `yaml:"-"`
}

// Service is one scoring service entry.
type Service struct {
	BaseURL             string        `yaml:"base_url"`
	APIKey              string        `yaml:"api_key"`
	PollIntervalSeconds int           `yaml:"poll_interval_seconds"`
	Blob                *BlobSettings `yaml:"blob,omitempty"`
}

// BlobSettings configure batch-mode storage for a service. Either a full
// connection string or an account name/key pair must be given, not both.
type BlobSettings struct {
	ConnectionString string `yaml:"connection_string,omitempty"`
	AccountName      string `yaml:"account_name,omitempty"`
	AccountKey       string `yaml:"account_key,omitempty"`
	Container        string `yaml:"container"`
	PathPrefix       string `yaml:"path_prefix,omitempty"`
	Charset          string `yaml:"charset,omitempty"`
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Catalog) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Service returns the named entry, or an error listing the known names.
func (c *Catalog) Service(name string) (Service, error) {
	if svc, ok := c.Services[name]; ok {
		return svc, nil
	}
	names := make([]string, 0, len(c.Services))
	for n := range c.Services {
		names = append(names, n)
	}
	sort.Strings(names)
	return Service{}, fmt.Errorf("unknown service %q (known: %s)", name, strings.Join(names, ", "))
}

// PollInterval returns the configured poll interval as a duration.
func (s Service) PollInterval() time.Duration {
	secs := s.PollIntervalSeconds
	if secs <= 0 {
		secs = DefaultPollIntervalSeconds
	}
	return time.Duration(secs) * time.Second
}

// Resolve returns the blob connection string, assembling it from the account
// name/key pair when no full string is given.
func (b *BlobSettings) Resolve() (string, error) {
	hasPair := b.AccountName != "" || b.AccountKey != ""
	switch {
	case b.ConnectionString != "" && hasPair:
		return "", fmt.Errorf("blob settings must give connection_string or account_name/account_key, not both")
	case b.ConnectionString != "":
		return b.ConnectionString, nil
	case b.AccountName != "" && b.AccountKey != "":
		return blob.ConnectionString(b.AccountName, b.AccountKey), nil
	default:
		return "", fmt.Errorf("blob settings need connection_string or both account_name and account_key")
	}
}

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse validates catalog bytes.
func Parse(data []byte) (*Catalog, error) {
	var cfg Catalog
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if v := os.Getenv("AZML_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if len(cfg.Services) == 0 {
		return nil, fmt.Errorf("catalog declares no services")
	}
	for name, svc := range cfg.Services {
		if svc.BaseURL == "" {
			return nil, fmt.Errorf("service %q: base_url is required", name)
		}
		if svc.APIKey == "" {
			cfg.Warnings = append(cfg.Warnings,
				fmt.Sprintf("service %q has no api_key — calls will be unauthenticated", name))
		}
		if svc.Blob != nil {
			if _, err := svc.Blob.Resolve(); err != nil {
				return nil, fmt.Errorf("service %q: %w", name, err)
			}
			if svc.Blob.Container == "" {
				return nil, fmt.Errorf("service %q: blob container is required", name)
			}
			if cs := svc.Blob.Charset; cs != "" && !strings.EqualFold(cs, "utf-8") && !strings.EqualFold(cs, "utf8") {
				cfg.Warnings = append(cfg.Warnings,
					fmt.Sprintf("service %q uploads blobs as %s — batch outputs cannot be read back", name, cs))
			}
		}
	}
	return &cfg, nil
}
