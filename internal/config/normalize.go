// internal/config/normalize.go
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Defaults applied by Normalize.
const (
	DefaultResource     = "GPIB0::22::INSTR"
	DefaultBaudRate     = 115200
	DefaultTimeoutMs    = 3000
	DefaultOutputDir    = "HP_3457A Dumps"
	DefaultVerifyPasses = 2
	DefaultLogLevel     = "warning"
	DefaultSimBoard     = "03457-66511"
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Transport.Adapter == "" {
		cfg.Transport.Adapter = AdapterPrologixSerial
	}
	if cfg.Transport.BaudRate == 0 {
		cfg.Transport.BaudRate = DefaultBaudRate
	}
	if cfg.Transport.TimeoutMs == 0 {
		cfg.Transport.TimeoutMs = DefaultTimeoutMs
	}

	if cfg.Instrument.Resource == "" {
		cfg.Instrument.Resource = DefaultResource
	}

	if cfg.Simulator.Board == "" {
		cfg.Simulator.Board = DefaultSimBoard
	}
	if len(cfg.Simulator.Revision) == 0 {
		cfg.Simulator.Revision = []int{4, 1}
	}

	// Relative output paths live under the home directory.
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = DefaultOutputDir
	}
	if !filepath.IsAbs(cfg.Output.Dir) {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Output.Dir = filepath.Join(home, cfg.Output.Dir)
		}
	}
	if cfg.Output.VerifyPasses == 0 {
		cfg.Output.VerifyPasses = DefaultVerifyPasses
	}

	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
}
