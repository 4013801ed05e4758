package hostcfg

import (
	"fmdac-go/x/mathx"
	"fmdac-go/x/strx"
)

// DefaultPort is used when no bridge port is configured.
const DefaultPort = "/dev/ttyACM0"

// Normalize applies defaults. It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	cfg.Bridge.Port = strx.Coalesce(cfg.Bridge.Port, DefaultPort)
	if cfg.Bridge.Baud == 0 {
		cfg.Bridge.Baud = DefaultBaud
	}
	if cfg.Bridge.TimeoutMs == 0 {
		cfg.Bridge.TimeoutMs = DefaultTimeoutMs
	}
	cfg.Bridge.TimeoutMs = mathx.Clamp(cfg.Bridge.TimeoutMs, 10, 60000)
	if cfg.Modulator.Fields == nil {
		cfg.Modulator.Fields = map[string]uint64{}
	}
}
