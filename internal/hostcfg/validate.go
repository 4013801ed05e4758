package hostcfg

import (
	"github.com/pkg/errors"

	"fmdac-go/drivers/fmdac"
)

// Validate checks configuration correctness.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	if cfg.Bridge.Baud < 0 {
		return errors.Errorf("bridge: baud must be positive, got %d", cfg.Bridge.Baud)
	}
	if cfg.Bridge.TimeoutMs < 0 {
		return errors.Errorf("bridge: timeout_ms must be positive, got %d", cfg.Bridge.TimeoutMs)
	}

	// Unknown names and out-of-range values are always config mistakes,
	// whatever policy the device codec runs with.
	if _, err := fmdac.Strict.Pack(cfg.Modulator.Values()); err != nil {
		return errors.Wrap(err, "modulator.fields")
	}
	return nil
}
