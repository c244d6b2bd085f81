// cmd/hp3457a/cmd/root.go
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tamzrod/hp3457a-dumper/internal/config"
	"github.com/tamzrod/hp3457a-dumper/internal/instrument"
	"github.com/tamzrod/hp3457a-dumper/internal/transport"
)

// Version is the tool version, printed in the banner.
var Version = "0.3.0"

var (
	// Global flags
	configPath string
	logLevel   string
	adapter    string
	port       string
	endpoint   string
	resource   string
	timeout    time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "hp3457a",
	Short: "HP 3457A CAL-RAM memory dumper",
	Long: `Identify the A1 main controller board of an HP 3457A over GPIB and dump
its ROM, RAM and write-protected calibration RAM to binary and hex text files.

Examples:
  hp3457a detect --port /dev/ttyUSB0                 # Identify board and firmware
  hp3457a regions --board 03457-66511                # Show an address map
  hp3457a dump --port /dev/ttyUSB0                   # Archive the CAL-RAM
  hp3457a dump --adapter prologix-tcp --endpoint 192.168.0.40 --all
  hp3457a convert 3457_DUMP_1543000000.txt           # Convert a 2018 raw log`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with a code per error class.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(exitCode(err))
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "YAML config file")
	pf.StringVarP(&logLevel, "debug", "d", "", "logging: debug, info, warning, error (default warning)")
	pf.StringVarP(&adapter, "adapter", "a", "", "GPIB adapter: prologix-serial, prologix-tcp, sim")
	pf.StringVarP(&port, "port", "p", "", "serial device of a Prologix GPIB-USB controller")
	pf.StringVar(&endpoint, "endpoint", "", "host[:port] of a Prologix GPIB-ETHERNET controller")
	pf.StringVarP(&resource, "resource", "r", "", "instrument resource (default GPIB0::22::INSTR)")
	pf.DurationVar(&timeout, "timeout", 0, "bus timeout per request (default 3s)")
}

// loadConfig merges the config file with command line flags, then
// validates and normalizes the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := &config.Config{}
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("adapter") {
		cfg.Transport.Adapter = adapter
	}
	if flags.Changed("port") {
		cfg.Transport.Port = port
	}
	if flags.Changed("endpoint") {
		cfg.Transport.Endpoint = endpoint
		if cfg.Transport.Adapter == "" {
			cfg.Transport.Adapter = config.AdapterPrologixTCP
		}
	}
	if flags.Changed("resource") {
		cfg.Instrument.Resource = resource
	}
	if flags.Changed("timeout") {
		cfg.Transport.TimeoutMs = int(timeout.Milliseconds())
	}
	if flags.Changed("debug") {
		cfg.Log.Level = logLevel
	}

	if err := config.Validate(cfg); err != nil {
		return nil, usageError{err}
	}
	config.Normalize(cfg)

	setupLogging(cfg.Log.Level)
	return cfg, nil
}

func setupLogging(level string) {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "info":
		l = slog.LevelInfo
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelWarn
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})
	slog.SetDefault(slog.New(h))
}

// openSession connects to and identifies the configured instrument.
func openSession(cfg *config.Config) (*instrument.Session, transport.Resource, error) {
	res, err := transport.ParseResource(cfg.Instrument.Resource)
	if err != nil {
		return nil, res, usageError{err}
	}
	dial, err := instrument.NewDialer(cfg)
	if err != nil {
		return nil, res, usageError{err}
	}
	s, err := instrument.Select(res, dial)
	if err != nil {
		return nil, res, err
	}
	return s, res, nil
}

func banner() {
	color.New(color.Bold).Fprintf(os.Stderr, "HP 3457A CalRAM Memory Dumper Version %s\n", Version)
}
