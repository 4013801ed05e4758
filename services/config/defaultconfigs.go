package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: board ID (placed in ctx with WithDevice)
// Val: raw JSON for that board
// -----------------------------------------------------------------------------

// cfgPico sets up the FM modulator on the TT04 carrier as used on the bench.
const cfgPico = `{
  "heartbeat": {
    "interval_ms": 5000
  },
  "modulator": {
    "design_id": 195,
    "step_us": 1000,
    "verify": true,
    "strict": false,
    "readback_interval_ms": 1000,
    "fields": {
      "ACC_INC": 52429,
      "DF_INC_COEF": 12,
      "DF_INC_FACT": 0,
      "DAC_ENA": 15,
      "DITH_FACT": 2,
      "MULTIPLY_SEL": 0,
      "AUDIO_CHAN_SEL": 0,
      "I2S_WS_ALIGN": 0,
      "SPI_OVERRIDE": 1
    }
  }
}`

var embeddedConfigs = map[string][]byte{
	"pico": []byte(cfgPico),
}
