// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Transport  TransportConfig  `yaml:"transport"`
	Instrument InstrumentConfig `yaml:"instrument"`
	Simulator  SimulatorConfig  `yaml:"simulator"`
	Output     OutputConfig     `yaml:"output"`
	Log        LogConfig        `yaml:"log"`
}

// ---- TRANSPORT ----

const (
	AdapterPrologixSerial = "prologix-serial"
	AdapterPrologixTCP    = "prologix-tcp"
	AdapterSimulator      = "sim"
)

type TransportConfig struct {
	Adapter   string `yaml:"adapter"`
	Port      string `yaml:"port"`      // serial device (prologix-serial)
	BaudRate  int    `yaml:"baud_rate"` // prologix-serial
	Endpoint  string `yaml:"endpoint"`  // host[:port] (prologix-tcp)
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- INSTRUMENT ----

type InstrumentConfig struct {
	Resource string `yaml:"resource"` // GPIB0::22::INSTR
}

// ---- SIMULATOR ----

type SimulatorConfig struct {
	Board    string `yaml:"board"`
	Revision []int  `yaml:"revision"` // [major, minor]
	Seed     int64  `yaml:"seed"`
}

// ---- OUTPUT ----

type OutputConfig struct {
	Dir          string `yaml:"dir"` // relative paths resolve under $HOME
	VerifyPasses int    `yaml:"verify_passes"`
}

// ---- LOG ----

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads a YAML config file. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	var cfg Config
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &cfg, nil
}
