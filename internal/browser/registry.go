package browser

import (
	_ "embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/pelletier/go-toml/v2"
)

//go:embed browsers.toml
var browsersTOML []byte

// BrowserDefinition defines how a known browser is invoked
type BrowserDefinition struct {
	Description string   `toml:"description"`
	Args        []string `toml:"args,omitempty"`
}

// PlatformConfig lists the probe order and catch-all opener for one OS
type PlatformConfig struct {
	Candidates    []string `toml:"candidates"`
	DefaultOpener string   `toml:"default_opener"`
}

// RegistryConfig holds all browser and platform definitions
type RegistryConfig struct {
	Platforms map[string]PlatformConfig    `toml:"platforms"`
	Browsers  map[string]BrowserDefinition `toml:"browsers"`
}

// Registry manages browser definitions
type Registry struct {
	config RegistryConfig
}

// NewRegistry creates a registry from the embedded TOML
func NewRegistry() (*Registry, error) {
	var config RegistryConfig
	if err := toml.Unmarshal(browsersTOML, &config); err != nil {
		return nil, fmt.Errorf("parsing browsers.toml: %w", err)
	}

	registry := &Registry{config: config}

	// Try to load user's custom browser definitions
	registry.loadUserConfig()

	return registry, nil
}

// loadUserConfig loads custom browser definitions from user's config directory
func (r *Registry) loadUserConfig() {
	configPaths := []string{
		"~/.config/gsearch/browsers.toml",
		"./browsers.toml",
	}

	for _, path := range configPaths {
		if len(path) >= 2 && path[:2] == "~/" {
			if home, err := os.UserHomeDir(); err == nil {
				path = filepath.Join(home, path[2:])
			}
		}

		if data, err := os.ReadFile(path); err == nil {
			var userConfig RegistryConfig
			if err := toml.Unmarshal(data, &userConfig); err == nil {
				// Merge user config (overrides built-in)
				if r.config.Browsers == nil {
					r.config.Browsers = make(map[string]BrowserDefinition)
				}
				for name, def := range userConfig.Browsers {
					r.config.Browsers[name] = def
				}
				if r.config.Platforms == nil {
					r.config.Platforms = make(map[string]PlatformConfig)
				}
				for name, platform := range userConfig.Platforms {
					r.config.Platforms[name] = platform
				}
			}
		}
	}
}

// Candidates returns the probe order for the current platform
func (r *Registry) Candidates() []string {
	if platform, ok := r.config.Platforms[runtime.GOOS]; ok {
		return platform.Candidates
	}
	return nil
}

// DefaultOpener returns the platform's catch-all opener
func (r *Registry) DefaultOpener() string {
	if platform, ok := r.config.Platforms[runtime.GOOS]; ok && platform.DefaultOpener != "" {
		return platform.DefaultOpener
	}
	if fallback, ok := r.config.Platforms["fallback"]; ok && fallback.DefaultOpener != "" {
		return fallback.DefaultOpener
	}
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "windows":
		return "rundll32"
	default:
		return "xdg-open"
	}
}

// Command builds the invocation for a browser and URL. Unknown executables
// are called with the URL as their only argument.
func (r *Registry) Command(name, url string) *exec.Cmd {
	if def, ok := r.config.Browsers[name]; ok && len(def.Args) > 0 {
		args := append(append([]string{}, def.Args...), url)
		return exec.Command(name, args...)
	}
	return exec.Command(name, url)
}

// IsBrowserAvailable checks if a browser is installed
func (r *Registry) IsBrowserAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
