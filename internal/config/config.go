// Package config resolves jobdesk settings from defaults, the YAML file in
// the user config directory, an optional .env file and the environment.
// Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIURL = "http://localhost:3000"
	DefaultTheme  = "auto"
	DefaultAddr   = ":3000"

	dirName    = "jobdesk"
	fileName   = "config.yaml"
	logName    = "jobdesk.log"
	eventsName = "events.jsonl"
)

// Config holds every setting the binaries read.
type Config struct {
	APIURL string `yaml:"api_url,omitempty"`
	Theme  string `yaml:"theme,omitempty"`
	// EventsFile receives the dashboard's JSON-lines audit trail. "off"
	// or an empty value disables it.
	EventsFile string       `yaml:"events_file,omitempty"`
	Log        LogConfig    `yaml:"log,omitempty"`
	Server     ServerConfig `yaml:"server,omitempty"`
}

// LogConfig selects the slog handler. File is only used by the
// interactive dashboard, which owns the terminal.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
	File   string `yaml:"file,omitempty"`
}

// ServerConfig configures the jobsd development backend.
type ServerConfig struct {
	Addr   string `yaml:"addr,omitempty"`
	DBPath string `yaml:"db_path,omitempty"`
	Seed   bool   `yaml:"seed,omitempty"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		APIURL:     DefaultAPIURL,
		Theme:      DefaultTheme,
		EventsFile: filepath.Join(Dir(), eventsName),
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			File:   filepath.Join(Dir(), logName),
		},
		Server: ServerConfig{
			Addr:   DefaultAddr,
			DBPath: filepath.Join(Dir(), "jobsd.db"),
			Seed:   true,
		},
	}
}

// Options locates the optional files. Empty paths select the defaults:
// Path falls back to DefaultPath and EnvFile is skipped.
type Options struct {
	Path    string
	EnvFile string
}

// Load layers defaults, the YAML file, the .env file and the environment.
// Missing files are not errors.
func Load(opts Options) (*Config, error) {
	cfg := Default()

	path := opts.Path
	if path == "" {
		path = DefaultPath()
	}
	if err := readFile(path, &cfg); err != nil {
		return nil, err
	}

	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}
	applyEnv(&cfg)
	return &cfg, nil
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.APIURL = getEnv("JOBDESK_API_URL", cfg.APIURL)
	cfg.Theme = getEnv("JOBDESK_THEME", cfg.Theme)
	cfg.EventsFile = getEnv("JOBDESK_EVENTS_FILE", cfg.EventsFile)
	cfg.Log.Level = getEnv("JOBDESK_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("JOBDESK_LOG_FORMAT", cfg.Log.Format)
	cfg.Log.File = getEnv("JOBDESK_LOG_FILE", cfg.Log.File)
	cfg.Server.Addr = getEnv("JOBSD_ADDR", cfg.Server.Addr)
	cfg.Server.DBPath = getEnv("JOBSD_DB_PATH", cfg.Server.DBPath)
	cfg.Server.Seed = getEnvAsBool("JOBSD_SEED", cfg.Server.Seed)
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	u, err := url.Parse(strings.TrimSpace(c.APIURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api url %q must be an absolute http(s) URL", c.APIURL)
	}
	switch strings.ToLower(c.Theme) {
	case "auto", "dark", "light":
	default:
		return fmt.Errorf("theme %q must be one of auto, dark, light", c.Theme)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log level %q must be one of debug, info, warn, error", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log format %q must be text or json", c.Log.Format)
	}
	return nil
}

// SaveTheme persists the markdown theme to the YAML file at path, keeping
// every other key the file already holds.
func SaveTheme(path, theme string) error {
	if path == "" {
		path = DefaultPath()
	}
	doc := map[string]any{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("read config %s: %w", path, err)
	}
	doc["theme"] = theme

	out, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}

// Dir is <UserConfigDir>/jobdesk, or ./jobdesk when no config dir exists.
func Dir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, dirName)
}

func DefaultPath() string {
	return filepath.Join(Dir(), fileName)
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := strings.TrimSpace(os.Getenv(key))
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
