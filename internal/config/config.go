// Package config loads todoboard settings through viper.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppName is the config directory name and env prefix root.
const AppName = "todoboard"

// Config represents the complete todoboard configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Board   BoardConfig   `mapstructure:"board"`
	TUI     TUIConfig     `mapstructure:"tui"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Server  ServerConfig  `mapstructure:"server"`
}

// APIConfig points the remote client at the todo endpoints.
// Per-operation URLs default to BaseURL + "/todos" when empty.
type APIConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	ListURL   string `mapstructure:"list_url"`
	CreateURL string `mapstructure:"create_url"`
	UpdateURL string `mapstructure:"update_url"`
	DeleteURL string `mapstructure:"delete_url"`
}

// BoardConfig controls pagination and notifications.
type BoardConfig struct {
	// PageSize is the initial page size; must be one of PageSizeOptions.
	PageSize        int   `mapstructure:"page_size"`
	PageSizeOptions []int `mapstructure:"page_size_options"`
	// TotalEstimate is the item count the pager assumes. The endpoint does not
	// report a total, so this is a fixed estimate.
	TotalEstimate   int `mapstructure:"total_estimate"`
	ToastDurationMs int `mapstructure:"toast_duration_ms"`
}

// TUIConfig controls the terminal UI.
type TUIConfig struct {
	// Theme is one of "classic", "neon", "mono".
	Theme        string `mapstructure:"theme"`
	SkeletonRows int    `mapstructure:"skeleton_rows"`
	AltScreen    bool   `mapstructure:"alt_screen"`
}

// LoggingConfig controls zerolog output.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	File   string `mapstructure:"file"`
	Pretty bool   `mapstructure:"pretty"`
}

// MetricsConfig enables the Prometheus listener when Addr is set.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// ServerConfig configures the development REST server.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	// Store is one of "memory", "file", "redis".
	Store     string `mapstructure:"store"`
	File      string `mapstructure:"file"`
	RedisAddr string `mapstructure:"redis_addr"`
	RedisDB   int    `mapstructure:"redis_db"`
	Seed      int    `mapstructure:"seed"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "https://jsonplaceholder.typicode.com",
		},
		Board: BoardConfig{
			PageSize:        5,
			PageSizeOptions: []int{5, 10, 15, 20, 25, 30, 40, 50, 100},
			TotalEstimate:   200,
			ToastDurationMs: 3000,
		},
		TUI: TUIConfig{
			Theme:        "classic",
			SkeletonRows: 5,
			AltScreen:    true,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(ConfigDir(), AppName+".log"),
		},
		Server: ServerConfig{
			Addr:      "127.0.0.1:3000",
			Store:     "memory",
			File:      "todos.json",
			RedisAddr: "localhost:6379",
			Seed:      200,
		},
	}
}

// ToastDuration returns how long a notification stays on screen.
func (c *BoardConfig) ToastDuration() time.Duration {
	return time.Duration(c.ToastDurationMs) * time.Millisecond
}

// Endpoints resolves per-operation URLs, filling blanks from BaseURL.
func (c APIConfig) Endpoints() APIConfig {
	def := strings.TrimRight(c.BaseURL, "/") + "/todos"
	out := c
	for _, p := range []*string{&out.ListURL, &out.CreateURL, &out.UpdateURL, &out.DeleteURL} {
		if strings.TrimSpace(*p) == "" {
			*p = def
		}
		*p = strings.TrimRight(*p, "/")
	}
	return out
}

// SetDefaults registers default values with viper
func SetDefaults() {
	d := Default()

	viper.SetDefault("api.base_url", d.API.BaseURL)
	viper.SetDefault("api.list_url", d.API.ListURL)
	viper.SetDefault("api.create_url", d.API.CreateURL)
	viper.SetDefault("api.update_url", d.API.UpdateURL)
	viper.SetDefault("api.delete_url", d.API.DeleteURL)

	viper.SetDefault("board.page_size", d.Board.PageSize)
	viper.SetDefault("board.page_size_options", d.Board.PageSizeOptions)
	viper.SetDefault("board.total_estimate", d.Board.TotalEstimate)
	viper.SetDefault("board.toast_duration_ms", d.Board.ToastDurationMs)

	viper.SetDefault("tui.theme", d.TUI.Theme)
	viper.SetDefault("tui.skeleton_rows", d.TUI.SkeletonRows)
	viper.SetDefault("tui.alt_screen", d.TUI.AltScreen)

	viper.SetDefault("logging.level", d.Logging.Level)
	viper.SetDefault("logging.file", d.Logging.File)
	viper.SetDefault("logging.pretty", d.Logging.Pretty)

	viper.SetDefault("metrics.addr", d.Metrics.Addr)

	viper.SetDefault("server.addr", d.Server.Addr)
	viper.SetDefault("server.store", d.Server.Store)
	viper.SetDefault("server.file", d.Server.File)
	viper.SetDefault("server.redis_addr", d.Server.RedisAddr)
	viper.SetDefault("server.redis_db", d.Server.RedisDB)
	viper.SetDefault("server.seed", d.Server.Seed)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &cfg, nil
}

// ConfigDir returns the path to the user's config directory
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

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
