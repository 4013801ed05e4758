package main

import (
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"tinygo.org/x/drivers"

	"fmdac-go/drivers/fmdac"
	"fmdac-go/internal/hostcfg"
	"fmdac-go/transport/serialspi"
	"fmdac-go/x/conv"
	"fmdac-go/x/timex"
)

// bridgeOpener returns an SPI bus and its closer.
type bridgeOpener func(cfg hostcfg.BridgeConfig) (drivers.SPI, io.Closer, error)

func openSerialBridge(cfg hostcfg.BridgeConfig) (drivers.SPI, io.Closer, error) {
	p, err := serialspi.Open(serialspi.Config{
		Port:     cfg.Port,
		BaudRate: cfg.Baud,
		Timeout:  timex.Ms(cfg.TimeoutMs),
	})
	if err != nil {
		return nil, nil, err
	}
	return p, p, nil
}

type app struct {
	out, errOut io.Writer
	open        bridgeOpener
	log         *slog.Logger

	// flags
	verbose    bool
	configPath string
	sets       []string
	strict     bool
	verify     bool
	pad        bool
	port       string
	baud       int
}

func newApp(out, errOut io.Writer) *app {
	return &app{out: out, errOut: errOut, open: openSerialBridge}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fmdac",
		Short:         "Configure the FM modulator SPI latch",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			lvl := slog.LevelInfo
			if a.verbose {
				lvl = slog.LevelDebug
			}
			a.log = slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: lvl}))
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(a.out)
	root.SetErr(a.errOut)
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Debug logging")

	fieldsCmd := &cobra.Command{
		Use:   "fields",
		Short: "List the latch fields and their bit positions",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printLayout(a.out)
		},
	}

	encodeCmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode field values into a latch frame (hex)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			v, err := a.values(cfg)
			if err != nil {
				return err
			}
			frame, err := a.codec(cfg).Encode(v)
			if err != nil {
				return err
			}
			a.log.Debug("encoded", "logical", "0x"+strconv.FormatUint(fmdac.Pack(v), 16), "bytes", len(frame))
			if a.pad {
				frame = fmdac.PadWire(frame, fmdac.WireLen)
			}
			printFrame(a.out, frame)
			return nil
		},
	}
	a.valueFlags(encodeCmd)
	encodeCmd.Flags().BoolVar(&a.pad, "pad", false, "Zero-extend the frame to the full register width")

	decodeCmd := &cobra.Command{
		Use:   "decode HEX",
		Short: "Decode a latch frame into field values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, ok := conv.ParseHex(args[0])
			if !ok {
				return errors.Errorf("invalid hex frame %q", args[0])
			}
			if len(frame) != fmdac.WireLen {
				a.log.Warn("frame length differs from register", "got", len(frame), "want", fmdac.WireLen)
			}
			printValues(a.out, fmdac.Decode(frame), nil)
			return nil
		},
	}

	writeCmd := &cobra.Command{
		Use:   "write",
		Short: "Write field values through the serial bridge and read back",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runWrite()
		},
	}
	a.valueFlags(writeCmd)
	writeCmd.Flags().BoolVar(&a.verify, "verify", false, "Read back and compare after writing")
	writeCmd.Flags().StringVar(&a.port, "port", "", "Bridge serial port (overrides config)")
	writeCmd.Flags().IntVar(&a.baud, "baud", 0, "Bridge baud rate (overrides config)")

	root.AddCommand(fieldsCmd, encodeCmd, decodeCmd, writeCmd)
	return root
}

func (a *app) valueFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&a.configPath, "config", "c", "", "YAML config file")
	cmd.Flags().StringArrayVarP(&a.sets, "set", "s", nil, "Field value NAME=VALUE (repeatable, 0x for hex)")
	cmd.Flags().BoolVar(&a.strict, "strict", false, "Reject unknown fields and out-of-range values")
}

func (a *app) loadConfig() (*hostcfg.Config, error) {
	if a.configPath == "" {
		return hostcfg.Parse(nil)
	}
	return hostcfg.Load(a.configPath)
}

func (a *app) codec(cfg *hostcfg.Config) fmdac.Codec {
	if a.strict {
		return fmdac.Strict
	}
	return cfg.Modulator.Codec()
}

// values merges config fields with --set overrides.
func (a *app) values(cfg *hostcfg.Config) (fmdac.Values, error) {
	v := cfg.Modulator.Values()
	for _, s := range a.sets {
		name, raw, ok := strings.Cut(s, "=")
		if !ok || name == "" {
			return nil, errors.Errorf("--set %q: want NAME=VALUE", s)
		}
		x, err := strconv.ParseUint(strings.TrimSpace(raw), 0, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "--set %s", name)
		}
		v[strings.ToUpper(strings.TrimSpace(name))] = x
	}
	return v, nil
}

func (a *app) runWrite() error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	v, err := a.values(cfg)
	if err != nil {
		return err
	}
	if a.port != "" {
		cfg.Bridge.Port = a.port
	}
	if a.baud > 0 {
		cfg.Bridge.Baud = a.baud
	}

	spi, closer, err := a.open(cfg.Bridge)
	if err != nil {
		return err
	}
	defer closer.Close()
	a.log.Debug("bridge open", "port", cfg.Bridge.Port, "baud", cfg.Bridge.Baud)

	dev := fmdac.New(spi, fmdac.NoPin, fmdac.Config{Codec: a.codec(cfg)})
	start := time.Now()
	if a.verify || cfg.Modulator.Verify {
		got, err := dev.WriteVerify(v)
		var ve *fmdac.VerifyError
		if errors.As(err, &ve) {
			printValues(a.out, got, ve.Mismatches)
			a.log.Error("readback mismatch", "fields", len(ve.Mismatches))
			return err
		}
		if err != nil {
			return err
		}
		printFrame(a.out, dev.LastFrame())
		printValues(a.out, got, nil)
	} else {
		prev, err := dev.Write(v)
		if err != nil {
			return err
		}
		printFrame(a.out, dev.LastFrame())
		printValues(a.out, prev, nil)
	}
	a.log.Info("written", "port", cfg.Bridge.Port, "took", time.Since(start))
	return nil
}
