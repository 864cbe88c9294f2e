package config

import "time"

// TestConfig returns a config suitable for tests: fake credentials, a
// short timeout, and no on-disk history.
func TestConfig() *Config {
	cfg := defaultConfig()
	cfg.API.Key = "test-key"
	cfg.API.CSEID = "test-cx"
	cfg.API.Timeout = 5 * time.Second
	cfg.API.UserAgent = "gsearch-test/1.0"
	cfg.History.Enabled = false
	cfg.Log.Level = "off"
	return cfg
}
