// Package config defines medportal's configuration, its defaults, and how it
// is loaded from YAML, .env files and MEDPORTAL_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kduhealth/medportal/internal/flags"
	"github.com/kduhealth/medportal/internal/registration"
	"github.com/kduhealth/medportal/internal/tracing"
)

// Config holds all configuration options for medportal.
type Config struct {
	Institution InstitutionConfig `mapstructure:"institution" yaml:"institution"`
	Storage     StorageConfig     `mapstructure:"storage" yaml:"storage"`
	Events      EventsConfig      `mapstructure:"events" yaml:"events"`
	Metrics     MetricsConfig     `mapstructure:"metrics" yaml:"metrics"`
	Tracing     tracing.Config    `mapstructure:"tracing" yaml:"tracing"`
	Cache       CacheConfig       `mapstructure:"cache" yaml:"cache"`
	UI          UIConfig          `mapstructure:"ui" yaml:"ui"`
	Flags       map[string]bool   `mapstructure:"flags" yaml:"flags"`
	Debug       bool              `mapstructure:"debug" yaml:"debug"`
}

// InstitutionConfig names the institution and its sign-up email domain.
type InstitutionConfig struct {
	Name        string `mapstructure:"name" yaml:"name"`
	EmailDomain string `mapstructure:"email_domain" yaml:"email_domain"`
}

// StorageConfig locates the SQLite database.
type StorageConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// EventsConfig configures registration event publishing.
type EventsConfig struct {
	// NATSURL is empty to publish in-process only.
	NATSURL string `mapstructure:"nats_url" yaml:"nats_url"`
	Subject string `mapstructure:"subject" yaml:"subject"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// Listen is a host:port for /metrics; empty disables the endpoint.
	Listen string `mapstructure:"listen" yaml:"listen"`
}

// CacheConfig configures the profile cache behind the landing screens.
type CacheConfig struct {
	ProfileTTL time.Duration `mapstructure:"profile_ttl" yaml:"profile_ttl"`
}

// UIConfig holds terminal UI options.
type UIConfig struct {
	MarkdownStyle string `mapstructure:"markdown_style" yaml:"markdown_style"` // "dark" (default), "light" or "notty"
}

// Defaults returns a Config with default values.
func Defaults() Config {
	tc := tracing.DefaultConfig()
	tc.FilePath = DefaultTracesFilePath()
	return Config{
		Institution: InstitutionConfig{
			Name:        "KDU",
			EmailDomain: registration.DefaultEmailDomain,
		},
		Storage: StorageConfig{Path: DefaultDatabasePath()},
		Events:  EventsConfig{Subject: "medportal.users.registered"},
		Tracing: tc,
		Cache:   CacheConfig{ProfileTTL: 10 * time.Minute},
		UI:      UIConfig{MarkdownStyle: "dark"},
		Flags:   flags.Defaults(),
	}
}

// DefaultDatabasePath is ~/.medportal/medportal.db, or a relative path when
// the home directory is unknown.
func DefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".medportal", "medportal.db")
	}
	return filepath.Join(home, ".medportal", "medportal.db")
}

// DefaultTracesFilePath is ~/.config/medportal/traces/traces.jsonl, or ""
// when the home directory is unknown.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "medportal", "traces", "traces.jsonl")
}

// ExpandPath replaces a leading "~" with the home directory.
func ExpandPath(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	domain := c.Institution.EmailDomain
	if domain == "" {
		return fmt.Errorf("institution.email_domain is required")
	}
	if strings.Contains(domain, "@") || strings.TrimSpace(domain) != domain {
		return fmt.Errorf("institution.email_domain %q must be a bare domain like kdu.ac.lk", domain)
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required")
	}
	if c.Cache.ProfileTTL < 0 {
		return fmt.Errorf("cache.profile_ttl must not be negative")
	}
	switch c.UI.MarkdownStyle {
	case "", "dark", "light", "notty":
	default:
		return fmt.Errorf("ui.markdown_style must be dark, light or notty, got %q", c.UI.MarkdownStyle)
	}
	return validateTracing(c.Tracing)
}

func validateTracing(t tracing.Config) error {
	if !t.Enabled {
		return nil
	}
	switch t.Exporter {
	case "", tracing.ExporterNone, tracing.ExporterFile, tracing.ExporterStdout, tracing.ExporterOTLP:
	default:
		return fmt.Errorf("tracing.exporter must be none, file, stdout or otlp, got %q", t.Exporter)
	}
	if t.SampleRate < 0 || t.SampleRate > 1 {
		return fmt.Errorf("tracing.sample_rate must be between 0 and 1, got %v", t.SampleRate)
	}
	return nil
}
