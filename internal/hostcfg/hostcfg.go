// Package hostcfg loads the YAML file used by the host tool to drive the
// modulator through a USB-serial SPI bridge.
package hostcfg

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"fmdac-go/drivers/fmdac"
)

const (
	DefaultBaud      = 115200
	DefaultTimeoutMs = 500
)

type Config struct {
	Bridge    BridgeConfig    `yaml:"bridge"`
	Modulator ModulatorConfig `yaml:"modulator"`
}

// ---- BRIDGE ----

type BridgeConfig struct {
	Port      string `yaml:"port"`
	Baud      int    `yaml:"baud"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- MODULATOR ----

type ModulatorConfig struct {
	Strict bool              `yaml:"strict"`
	Verify bool              `yaml:"verify"`
	Fields map[string]uint64 `yaml:"fields"`
}

// Values returns the configured fields as a codec field map.
func (m ModulatorConfig) Values() fmdac.Values {
	return fmdac.Values(m.Fields).Clone()
}

// Codec returns the codec matching the strict flag.
func (m ModulatorConfig) Codec() fmdac.Codec {
	if m.Strict {
		return fmdac.Strict
	}
	return fmdac.Codec{}
}

// Load reads, decodes, validates and normalizes a config file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	cfg, err := Parse(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes YAML, then validates and normalizes it.
func Parse(raw []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, errors.Wrap(err, "decode yaml")
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	Normalize(&cfg)
	return &cfg, nil
}
