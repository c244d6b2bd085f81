// internal/transport/transport.go
package transport

import (
	"errors"
	"log/slog"
)

// Transport is the instrument bus capability the core consumes.
// Strictly half-duplex: one request at a time, each bound by the
// transport's own timeout.
type Transport interface {
	Write(cmd string) error
	Query(cmd string) (string, error)
	Close() error
}

var (
	// ErrTimeout is wrapped by every implementation when the bus or
	// controller does not answer in time.
	ErrTimeout = errors.New("transport: timeout")

	// ErrClosed is returned for operations on a closed transport.
	ErrClosed = errors.New("transport: closed")
)

type logged struct {
	next   Transport
	logger *slog.Logger
}

// Logged decorates t so every command and reply is logged at debug level.
func Logged(t Transport, logger *slog.Logger) Transport {
	if logger == nil {
		logger = slog.Default()
	}
	return &logged{next: t, logger: logger}
}

func (l *logged) Write(cmd string) error {
	err := l.next.Write(cmd)
	if err != nil {
		l.logger.Debug("bus write failed", "cmd", cmd, "err", err)
		return err
	}
	l.logger.Debug("bus write", "cmd", cmd)
	return nil
}

func (l *logged) Query(cmd string) (string, error) {
	reply, err := l.next.Query(cmd)
	if err != nil {
		l.logger.Debug("bus query failed", "cmd", cmd, "err", err)
		return "", err
	}
	l.logger.Debug("bus query", "cmd", cmd, "reply", reply)
	return reply, nil
}

func (l *logged) Close() error { return l.next.Close() }
