package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/cumulus13/gsearch/internal/google"
)

type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Search  SearchConfig  `mapstructure:"search"`
	Output  OutputConfig  `mapstructure:"output"`
	Browser BrowserConfig `mapstructure:"browser"`
	History HistoryConfig `mapstructure:"history"`
	Log     LogConfig     `mapstructure:"log"`
}

type APIConfig struct {
	Key       string        `mapstructure:"key"`
	CSEID     string        `mapstructure:"cse_id"`
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

type SearchConfig struct {
	MaxResults int `mapstructure:"max_results"`
	PerPage    int `mapstructure:"per_page"`
}

type OutputConfig struct {
	// SaveDir empty means fetched pages are not written to disk.
	SaveDir string   `mapstructure:"save_dir"`
	Colors  UIColors `mapstructure:"colors"`
}

type UIColors struct {
	Primary   string `mapstructure:"primary"`
	Secondary string `mapstructure:"secondary"`
	Accent    string `mapstructure:"accent"`
	Text      string `mapstructure:"text"`
	Muted     string `mapstructure:"muted"`
	Error     string `mapstructure:"error"`
	Success   string `mapstructure:"success"`
}

type BrowserConfig struct {
	// Path may be a bare command name or a full path to the executable.
	Path string `mapstructure:"path"`
}

type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
	Index   string `mapstructure:"index"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	stateDir := filepath.Join(homeDir, ".gsearch")

	return &Config{
		API: APIConfig{
			BaseURL:   google.DefaultBaseURL,
			Timeout:   30 * time.Second,
			UserAgent: "gsearch/1.0 (https://github.com/cumulus13/gsearch)",
		},
		Search: SearchConfig{
			MaxResults: 10,
			PerPage:    google.MaxPerPage,
		},
		Output: OutputConfig{
			Colors: UIColors{
				Primary:   "#4285F4",
				Secondary: "#34A853",
				Accent:    "#FBBC05",
				Text:      "#EAEAEA",
				Muted:     "#94A3B8",
				Error:     "#EA4335",
				Success:   "#4ADE80",
			},
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    filepath.Join(stateDir, "history.db"),
			Index:   filepath.Join(stateDir, "index.bleve"),
		},
		Log: LogConfig{
			Level: "off",
		},
	}
}

// Load reads configuration with the file taking priority over the
// environment: GOOGLE_API_KEY, GOOGLE_CSE_ID and BROWSER_BIN_PATH only
// seed the defaults that an on-disk JSON config overrides. Command-line
// flags are the caller's business, applied on the returned struct.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// A local .env file seeds the process environment without
	// clobbering variables that are already set.
	_ = gotenv.Load()

	def := defaultConfig()
	v.SetDefault("api.key", os.Getenv("GOOGLE_API_KEY"))
	v.SetDefault("api.cse_id", os.Getenv("GOOGLE_CSE_ID"))
	v.SetDefault("api.base_url", def.API.BaseURL)
	v.SetDefault("api.timeout", def.API.Timeout)
	v.SetDefault("api.user_agent", def.API.UserAgent)
	v.SetDefault("search.max_results", def.Search.MaxResults)
	v.SetDefault("search.per_page", def.Search.PerPage)
	v.SetDefault("output.save_dir", def.Output.SaveDir)
	v.SetDefault("output.colors.primary", def.Output.Colors.Primary)
	v.SetDefault("output.colors.secondary", def.Output.Colors.Secondary)
	v.SetDefault("output.colors.accent", def.Output.Colors.Accent)
	v.SetDefault("output.colors.text", def.Output.Colors.Text)
	v.SetDefault("output.colors.muted", def.Output.Colors.Muted)
	v.SetDefault("output.colors.error", def.Output.Colors.Error)
	v.SetDefault("output.colors.success", def.Output.Colors.Success)
	v.SetDefault("browser.path", os.Getenv("BROWSER_BIN_PATH"))
	v.SetDefault("history.enabled", def.History.Enabled)
	v.SetDefault("history.path", def.History.Path)
	v.SetDefault("history.index", def.History.Index)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.file", def.Log.File)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "gsearch")

		v.SetConfigName("config")
		v.SetConfigType("json")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandPaths(&config)

	return &config, nil
}

// expandTilde expands a leading ~/ to the home directory.
func expandTilde(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// expandPath expands ~ and converts relative paths to absolute.
func expandPath(path string) string {
	if path == "" {
		return path
	}

	path = expandTilde(path)
	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Output.SaveDir = expandPath(cfg.Output.SaveDir)
	cfg.History.Path = expandPath(cfg.History.Path)
	cfg.History.Index = expandPath(cfg.History.Index)
	cfg.Log.File = expandPath(cfg.Log.File)

	// The browser may be a bare command name resolved via PATH, so it
	// only gets tilde expansion.
	cfg.Browser.Path = expandTilde(cfg.Browser.Path)
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Durations are written as strings so the file stays readable.
	v.Set("api", map[string]interface{}{
		"key":        config.API.Key,
		"cse_id":     config.API.CSEID,
		"base_url":   config.API.BaseURL,
		"timeout":    config.API.Timeout.String(),
		"user_agent": config.API.UserAgent,
	})
	v.Set("search", map[string]interface{}{
		"max_results": config.Search.MaxResults,
		"per_page":    config.Search.PerPage,
	})
	v.Set("output", map[string]interface{}{
		"save_dir": config.Output.SaveDir,
		"colors": map[string]interface{}{
			"primary":   config.Output.Colors.Primary,
			"secondary": config.Output.Colors.Secondary,
			"accent":    config.Output.Colors.Accent,
			"text":      config.Output.Colors.Text,
			"muted":     config.Output.Colors.Muted,
			"error":     config.Output.Colors.Error,
			"success":   config.Output.Colors.Success,
		},
	})
	v.Set("browser", map[string]interface{}{
		"path": config.Browser.Path,
	})
	v.Set("history", map[string]interface{}{
		"enabled": config.History.Enabled,
		"path":    config.History.Path,
		"index":   config.History.Index,
	})
	v.Set("log", map[string]interface{}{
		"level": config.Log.Level,
		"file":  config.Log.File,
	})

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

// GenerateDefaultConfig writes a config file populated with defaults.
func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}

// DefaultConfigPath is where generated configs land when no explicit
// path is given.
func DefaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "gsearch", "config.json")
}
