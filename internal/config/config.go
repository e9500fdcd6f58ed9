// Package config loads rtm2todoist settings from defaults, an optional YAML
// file and the environment.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/TWRT/rtm2todoist/internal/models"
	"github.com/TWRT/rtm2todoist/internal/routing"
	"github.com/spf13/viper"
)

const (
	AppName       = "rtm2todoist"
	EnvPrefix     = "RTM2TODOIST"
	DefaultFilter = "status:incomplete"
)

type Config struct {
	Source      SourceConfig            `mapstructure:"source"`
	Destination DestinationConfig       `mapstructure:"destination"`
	Routing     map[string]models.Route `mapstructure:"routing"`
	Ledger      LedgerConfig            `mapstructure:"ledger"`
	Logging     LoggingConfig           `mapstructure:"logging"`
	HTTP        HTTPConfig              `mapstructure:"http"`
	Credentials Credentials             `mapstructure:"credentials"`
}

type SourceConfig struct {
	// Filter is an RTM search expression applied to live queries.
	Filter string `mapstructure:"filter"`
	// ExportFile, when set, replaces the live API with a JSON export.
	ExportFile string `mapstructure:"export_file"`
	BaseURL    string `mapstructure:"base_url"`
}

type DestinationConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type LedgerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
	// Dir holds debug.log; empty logs to stderr.
	Dir string `mapstructure:"dir"`
}

type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// Credentials come only from the environment (or a .env file).
type Credentials struct {
	RTMAPIKey     string `mapstructure:"rtm_api_key"`
	RTMSecret     string `mapstructure:"rtm_secret"`
	RTMToken      string `mapstructure:"rtm_token"`
	TodoistAPIKey string `mapstructure:"todoist_api_key"`
}

var credentialEnv = map[string]string{
	"credentials.rtm_api_key":     "RTM_API_KEY",
	"credentials.rtm_secret":      "RTM_SECRET",
	"credentials.rtm_token":       "RTM_TOKEN",
	"credentials.todoist_api_key": "TODOIST_API_KEY",
}

func Default() *Config {
	return &Config{
		Source:  SourceConfig{Filter: DefaultFilter},
		Routing: map[string]models.Route{},
		Ledger: LedgerConfig{
			Enabled: true,
			Path:    filepath.Join(DataDir(), "ledger.db"),
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   DataDir(),
		},
		HTTP: HTTPConfig{Timeout: 10 * time.Second},
	}
}

// SetDefaults registers defaults and environment bindings on the global viper.
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("source.filter", defaults.Source.Filter)
	viper.SetDefault("source.export_file", "")
	viper.SetDefault("source.base_url", "")
	viper.SetDefault("destination.base_url", "")
	viper.SetDefault("ledger.enabled", defaults.Ledger.Enabled)
	viper.SetDefault("ledger.path", defaults.Ledger.Path)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
	viper.SetDefault("http.timeout", defaults.HTTP.Timeout)

	for key, env := range credentialEnv {
		_ = viper.BindEnv(key, env)
	}
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.Routing == nil {
		cfg.Routing = map[string]models.Route{}
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

func (c *Config) RoutingTable() routing.Table {
	table := make(routing.Table, len(c.Routing))
	for id, route := range c.Routing {
		table[id] = route
	}
	return table
}

// UseExport reports whether tasks come from an export file instead of the API.
func (c *Config) UseExport() bool {
	return c.Source.ExportFile != ""
}

func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + AppName
	}
	return filepath.Join(home, ".config", AppName)
}

func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DataDir holds the ledger database and debug log.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + AppName
	}
	return filepath.Join(home, ".local", "share", AppName)
}
