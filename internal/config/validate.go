// internal/config/validate.go
package config

import (
	"fmt"
	"strings"

	"github.com/tamzrod/hp3457a-dumper/internal/board"
	"github.com/tamzrod/hp3457a-dumper/internal/transport"
)

var logLevels = map[string]bool{
	"":        true,
	"debug":   true,
	"info":    true,
	"warning": true,
	"warn":    true,
	"error":   true,
}

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil")
	}

	// ------------------------------------------------------------
	// TRANSPORT
	// ------------------------------------------------------------

	t := cfg.Transport
	switch t.Adapter {
	case "", AdapterPrologixSerial:
		if t.Port == "" {
			return fmt.Errorf("transport.port is required for adapter %q", AdapterPrologixSerial)
		}
		if t.BaudRate < 0 {
			return fmt.Errorf("transport.baud_rate must be > 0, got %d", t.BaudRate)
		}
	case AdapterPrologixTCP:
		if t.Endpoint == "" {
			return fmt.Errorf("transport.endpoint is required for adapter %q", AdapterPrologixTCP)
		}
	case AdapterSimulator:
	default:
		return fmt.Errorf(
			"transport.adapter %q unknown (want %s, %s or %s)",
			t.Adapter, AdapterPrologixSerial, AdapterPrologixTCP, AdapterSimulator,
		)
	}
	if t.TimeoutMs < 0 {
		return fmt.Errorf("transport.timeout_ms must be >= 0, got %d", t.TimeoutMs)
	}

	// ------------------------------------------------------------
	// INSTRUMENT
	// ------------------------------------------------------------

	if cfg.Instrument.Resource != "" {
		if _, err := transport.ParseResource(cfg.Instrument.Resource); err != nil {
			return fmt.Errorf("instrument.resource: %w", err)
		}
	}

	// ------------------------------------------------------------
	// SIMULATOR (only checked when selected)
	// ------------------------------------------------------------

	if t.Adapter == AdapterSimulator {
		if cfg.Simulator.Board != "" {
			if _, err := board.ParseID(cfg.Simulator.Board); err != nil {
				return fmt.Errorf("simulator.board: %w", err)
			}
		}
		if n := len(cfg.Simulator.Revision); n != 0 && n != 2 {
			return fmt.Errorf("simulator.revision must be [major, minor], got %d values", n)
		}
	}

	// ------------------------------------------------------------
	// OUTPUT / LOG
	// ------------------------------------------------------------

	if cfg.Output.VerifyPasses < 0 {
		return fmt.Errorf("output.verify_passes must be >= 0, got %d", cfg.Output.VerifyPasses)
	}
	if !logLevels[strings.ToLower(cfg.Log.Level)] {
		return fmt.Errorf("log.level %q invalid (want debug, info, warning or error)", cfg.Log.Level)
	}

	return nil
}
