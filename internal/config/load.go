package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kduhealth/medportal/internal/log"
)

// EnvPrefix prefixes environment overrides, e.g. MEDPORTAL_STORAGE_PATH.
const EnvPrefix = "MEDPORTAL"

// Loaded is the result of Load.
type Loaded struct {
	Config Config
	// Path is the config file that was read, or written when none existed.
	Path string
	// Created is true when Path was written with defaults during Load.
	Created bool
}

// Load resolves the config file and merges it with .env and environment
// overrides. The lookup order is explicit (when non-empty), then
// .medportal/config.yaml in the working directory, then
// ~/.config/medportal/config.yaml. If nothing is found the default file is
// written to the user location.
func Load(explicit string) (Loaded, error) {
	loadDotEnv()

	v := viper.New()
	setDefaults(v, Defaults())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	var out Loaded
	path, found := resolvePath(explicit)
	switch {
	case found:
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Loaded{}, fmt.Errorf("reading config %s: %w", path, err)
		}
		out.Path = path
	case explicit != "":
		return Loaded{}, fmt.Errorf("config file %s: %w", explicit, os.ErrNotExist)
	case path != "":
		if err := WriteDefaultConfig(path); err != nil {
			log.Warn(log.CatConfig, "could not write default config", "path", path, "error", err)
		} else {
			out.Path = path
			out.Created = true
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Loaded{}, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Flags = mergeFlags(cfg.Flags, Defaults().Flags)
	cfg.Storage.Path = ExpandPath(cfg.Storage.Path)
	cfg.Tracing.FilePath = ExpandPath(cfg.Tracing.FilePath)
	if err := cfg.Validate(); err != nil {
		return Loaded{}, err
	}

	out.Config = cfg
	log.Debug(log.CatConfig, "config loaded", "path", out.Path, "created", out.Created)
	return out, nil
}

// UserConfigPath is ~/.config/medportal/config.yaml.
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "medportal", "config.yaml")
}

func resolvePath(explicit string) (string, bool) {
	if explicit != "" {
		explicit = ExpandPath(explicit)
		return explicit, fileExists(explicit)
	}
	local := filepath.Join(".medportal", "config.yaml")
	if fileExists(local) {
		return local, true
	}
	user := UserConfigPath()
	return user, user != "" && fileExists(user)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// loadDotEnv reads .env from the working directory. Variables already set
// in the environment win.
func loadDotEnv() {
	err := godotenv.Load()
	if err == nil {
		log.Debug(log.CatConfig, "loaded .env")
		return
	}
	if !errors.Is(err, os.ErrNotExist) {
		log.Warn(log.CatConfig, "ignoring unreadable .env", "error", err)
	}
}

// mergeFlags fills in defaults for flags the file does not mention.
func mergeFlags(configured, defaults map[string]bool) map[string]bool {
	out := make(map[string]bool, len(defaults)+len(configured))
	maps.Copy(out, defaults)
	maps.Copy(out, configured)
	return out
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("institution.name", d.Institution.Name)
	v.SetDefault("institution.email_domain", d.Institution.EmailDomain)
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("events.nats_url", d.Events.NATSURL)
	v.SetDefault("events.subject", d.Events.Subject)
	v.SetDefault("metrics.listen", d.Metrics.Listen)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
	v.SetDefault("cache.profile_ttl", d.Cache.ProfileTTL)
	v.SetDefault("ui.markdown_style", d.UI.MarkdownStyle)
	for name, on := range d.Flags {
		v.SetDefault("flags."+name, on)
	}
	v.SetDefault("debug", d.Debug)
}
