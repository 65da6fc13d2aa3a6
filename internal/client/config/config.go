package config

import "time"

// Config holds runtime settings for the adminctl CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the backend REST API.
//   - ProbeInterval: how often the client probes the authenticated
//     test endpoint to report session/connectivity status.
//   - StateDSN: sqlite file holding persisted client state (the session
//     token pair). Empty disables persistence.
type Config struct {
	ServerBaseURL string
	ProbeInterval time.Duration
	StateDSN      string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8000/api"
	c.ProbeInterval = 15 * time.Second
	c.StateDSN = "adminctl.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
