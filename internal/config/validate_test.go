// internal/config/validate_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
)

// helper to build a config quickly
func serialConfig(port string) *Config {
	return &Config{
		Transport: TransportConfig{
			Adapter: AdapterPrologixSerial,
			Port:    port,
		},
	}
}

// ---- tests ----

func TestValidate_SerialRequiresPort(t *testing.T) {
	if err := Validate(serialConfig("/dev/ttyUSB0")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Validate(serialConfig("")); err == nil {
		t.Fatalf("expected missing port error, got nil")
	}
}

func TestValidate_DefaultAdapterIsSerial(t *testing.T) {
	cfg := &Config{}
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected missing port error for default adapter, got nil")
	}
}

func TestValidate_TCPRequiresEndpoint(t *testing.T) {
	cfg := &Config{Transport: TransportConfig{Adapter: AdapterPrologixTCP}}
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected missing endpoint error, got nil")
	}

	cfg.Transport.Endpoint = "192.168.0.40"
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_UnknownAdapter(t *testing.T) {
	cfg := &Config{Transport: TransportConfig{Adapter: "visa"}}
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected unknown adapter error, got nil")
	}
}

func TestValidate_Resource(t *testing.T) {
	cfg := serialConfig("/dev/ttyUSB0")
	cfg.Instrument.Resource = "GPIB0::22::INSTR"
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.Instrument.Resource = "GPIB0::40::INSTR"
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected resource error, got nil")
	}
}

func TestValidate_Simulator(t *testing.T) {
	cfg := &Config{
		Transport: TransportConfig{Adapter: AdapterSimulator},
		Simulator: SimulatorConfig{Board: "03457_66501", Revision: []int{4, 1}},
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.Simulator.Board = "03457-99999"
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected board error, got nil")
	}

	cfg.Simulator.Board = ""
	cfg.Simulator.Revision = []int{4}
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected revision error, got nil")
	}
}

func TestValidate_LogLevel(t *testing.T) {
	cfg := serialConfig("/dev/ttyUSB0")
	cfg.Log.Level = "DEBUG"
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.Log.Level = "loud"
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected log level error, got nil")
	}
}

func TestValidate_DoesNotMutate(t *testing.T) {
	cfg := serialConfig("/dev/ttyUSB0")
	before := *cfg
	_ = Validate(cfg)
	if cfg.Transport != before.Transport || cfg.Output != before.Output {
		t.Fatalf("Validate mutated config")
	}
}

func TestNormalize_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := &Config{}
	Normalize(cfg)

	if cfg.Transport.Adapter != AdapterPrologixSerial {
		t.Fatalf("adapter: got=%q", cfg.Transport.Adapter)
	}
	if cfg.Transport.BaudRate != DefaultBaudRate || cfg.Transport.TimeoutMs != DefaultTimeoutMs {
		t.Fatalf("transport defaults not applied: %+v", cfg.Transport)
	}
	if cfg.Instrument.Resource != DefaultResource {
		t.Fatalf("resource: got=%q", cfg.Instrument.Resource)
	}
	if cfg.Output.VerifyPasses != DefaultVerifyPasses {
		t.Fatalf("verify passes: got=%d", cfg.Output.VerifyPasses)
	}
	if !filepath.IsAbs(cfg.Output.Dir) {
		t.Fatalf("output dir not absolute: %q", cfg.Output.Dir)
	}
	if cfg.Log.Level != DefaultLogLevel {
		t.Fatalf("log level: got=%q", cfg.Log.Level)
	}
}

func TestNormalize_KeepsAbsoluteDir(t *testing.T) {
	cfg := &Config{Output: OutputConfig{Dir: "/srv/dumps"}}
	Normalize(cfg)
	if cfg.Output.Dir != "/srv/dumps" {
		t.Fatalf("dir rewritten: %q", cfg.Output.Dir)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hp3457a.yaml")
	body := `
transport:
  adapter: prologix-tcp
  endpoint: 192.168.0.40:1234
  timeout_ms: 1500
instrument:
  resource: GPIB0::9::INSTR
output:
  verify_passes: 3
log:
  level: info
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() err=%v", err)
	}
	if cfg.Transport.Adapter != AdapterPrologixTCP || cfg.Transport.TimeoutMs != 1500 {
		t.Fatalf("transport: %+v", cfg.Transport)
	}
	if cfg.Instrument.Resource != "GPIB0::9::INSTR" {
		t.Fatalf("resource: %q", cfg.Instrument.Resource)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() err=%v", err)
	}
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("transport:\n  baud: 9600\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected unknown key error, got nil")
	}
}
