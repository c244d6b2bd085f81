// internal/transport/prologix/open.go
package prologix

import (
	"errors"
	"net"
	"time"

	"github.com/goburrow/serial"
)

// DefaultPort is the GPIB-ETHERNET controller's TCP port.
const DefaultPort = "1234"

const (
	defaultBaudRate = 115200
	defaultTimeout  = 3 * time.Second
)

// OpenSerial opens a GPIB-USB controller on a serial device.
func OpenSerial(cfg Config) (*Client, error) {
	if cfg.Port == "" {
		return nil, errors.New("prologix serial: port required")
	}
	if cfg.BaudRate <= 0 {
		cfg.BaudRate = defaultBaudRate
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	port, err := serial.Open(&serial.Config{
		Address:  cfg.Port,
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  cfg.Timeout,
	})
	if err != nil {
		return nil, classify(err)
	}

	return newClient(port, cfg)
}

// DialTCP connects to a GPIB-ETHERNET controller.
func DialTCP(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("prologix tcp: endpoint required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	endpoint := cfg.Endpoint
	if _, _, err := net.SplitHostPort(endpoint); err != nil {
		endpoint = net.JoinHostPort(endpoint, DefaultPort)
	}

	conn, err := net.DialTimeout("tcp", endpoint, cfg.Timeout)
	if err != nil {
		return nil, classify(err)
	}

	return newClient(conn, cfg)
}
