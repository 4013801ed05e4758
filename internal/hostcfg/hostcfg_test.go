package hostcfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"fmdac-go/drivers/fmdac"
	"fmdac-go/errcode"
)

const benchYAML = `
bridge:
  port: /dev/ttyUSB1
  baud: 230400
modulator:
  verify: true
  fields:
    ACC_INC: 52429
    DF_INC_COEF: 12
    DAC_ENA: 15
    DITH_FACT: 2
    SPI_OVERRIDE: 1
`

func TestParse_Bench(t *testing.T) {
	cfg, err := Parse([]byte(benchYAML))
	require.NoError(t, err)
	require.Equal(t, "/dev/ttyUSB1", cfg.Bridge.Port)
	require.Equal(t, 230400, cfg.Bridge.Baud)
	require.Equal(t, DefaultTimeoutMs, cfg.Bridge.TimeoutMs)
	require.True(t, cfg.Modulator.Verify)
	require.Equal(t, []byte{0x42, 0xF3, 0x0C, 0xCC, 0xD0}, fmdac.Encode(cfg.Modulator.Values()))
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("modulator: {}\n"))
	require.NoError(t, err)
	require.Equal(t, DefaultPort, cfg.Bridge.Port)
	require.Equal(t, DefaultBaud, cfg.Bridge.Baud)
	require.NotNil(t, cfg.Modulator.Fields)
	require.Empty(t, fmdac.Encode(cfg.Modulator.Values()))
}

func TestParse_TimeoutClamped(t *testing.T) {
	cfg, err := Parse([]byte("bridge: {timeout_ms: 1}\n"))
	require.NoError(t, err)
	require.Equal(t, 10, cfg.Bridge.TimeoutMs)
}

func TestValidate_RejectsOutOfRange(t *testing.T) {
	_, err := Parse([]byte("modulator:\n  fields:\n    DAC_ENA: 16\n"))
	require.Error(t, err)
	var oor *fmdac.ValueOutOfRangeError
	require.True(t, errors.As(err, &oor))
	require.Equal(t, fmdac.DACEna, oor.Field)
	require.Equal(t, errcode.ValueOutOfRange, errcode.Of(errors.Cause(err)))
}

func TestValidate_RejectsUnknownField(t *testing.T) {
	_, err := Parse([]byte("modulator:\n  fields:\n    VOLUME: 3\n"))
	require.Error(t, err)
	var uf *fmdac.UnknownFieldError
	require.True(t, errors.As(err, &uf))
	require.Equal(t, []string{"VOLUME"}, uf.Names)
}

func TestValidate_RejectsNegativeBaud(t *testing.T) {
	_, err := Parse([]byte("bridge: {baud: -1}\n"))
	require.ErrorContains(t, err, "baud")
}

func TestParse_BadYAML(t *testing.T) {
	_, err := Parse([]byte("modulator: [\n"))
	require.ErrorContains(t, err, "decode yaml")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fmdac.yaml")
	require.NoError(t, os.WriteFile(path, []byte(benchYAML), 0o600))
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, uint64(52429), cfg.Modulator.Fields[fmdac.AccInc])

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "read config")
}

func TestModulatorConfig_Codec(t *testing.T) {
	require.Equal(t, fmdac.Strict, ModulatorConfig{Strict: true}.Codec())
	require.Equal(t, fmdac.Codec{}, ModulatorConfig{}.Codec())
}
