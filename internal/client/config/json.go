package config

import (
	"encoding/json"
	"os"

	"github.com/sbakhtiari/adminctl/internal/flagx"
	"github.com/sbakhtiari/adminctl/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "15s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config.
type JsonConfig struct {
	ServerBaseURL string         `json:"server_base_url"`
	ProbeInterval timex.Duration `json:"probe_interval"`
	StateDSN      string         `json:"state_dsn"`
}

// parseJson overlays Config with values loaded from a JSON file located via
// the -c/-config flags. Absent file path means no JSON is loaded. Read or
// unmarshal errors panic; config is loaded once at startup and a broken
// file should stop the program immediately.
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.ProbeInterval.Duration != 0 {
		cfg.ProbeInterval = jc.ProbeInterval.Duration
	}
	if jc.StateDSN != "" {
		cfg.StateDSN = jc.StateDSN
	}
}
