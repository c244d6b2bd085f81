// internal/transport/prologix/client.go
package prologix

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/goburrow/serial"

	"github.com/tamzrod/hp3457a-dumper/internal/transport"
)

const (
	esc byte = 0x1B

	// maxReplyLen bounds one instrument reply; HP 3457A numeric replies
	// are well under 32 characters.
	maxReplyLen = 256

	// Controller read timeout limits (++read_tmo_ms).
	minReadTimeout = 1 * time.Millisecond
	maxReadTimeout = 3 * time.Second
)

// Config is minimal controller config.
type Config struct {
	Port     string // serial device, GPIB-USB
	BaudRate int
	Endpoint string // host:port, GPIB-ETHERNET
	Address  int    // GPIB primary address of the instrument
	Timeout  time.Duration
}

// Client drives one instrument through a Prologix controller.
// It serializes requests: the bus is half-duplex and overlapping
// commands corrupt instrument state.
type Client struct {
	mu      sync.Mutex
	rw      io.ReadWriteCloser
	r       *bufio.Reader
	timeout time.Duration
	closed  bool
}

type deadliner interface {
	SetDeadline(t time.Time) error
}

// newClient configures the controller on rw. On failure rw is closed.
func newClient(rw io.ReadWriteCloser, cfg Config) (*Client, error) {
	if cfg.Address < 0 || cfg.Address > transport.MaxPrimaryAddress {
		_ = rw.Close()
		return nil, fmt.Errorf("prologix: gpib address %d out of range", cfg.Address)
	}

	c := &Client{
		rw:      rw,
		r:       bufio.NewReader(rw),
		timeout: cfg.Timeout,
	}

	for _, cmd := range setupCommands(cfg) {
		if err := c.controller(cmd); err != nil {
			_ = rw.Close()
			return nil, fmt.Errorf("prologix: setup %q: %w", cmd, err)
		}
	}

	return c, nil
}

// setupCommands puts the controller in CONTROLLER mode addressing the
// instrument, with EOI asserted and CR appended on writes.
func setupCommands(cfg Config) []string {
	tmo := cfg.Timeout
	if tmo < minReadTimeout {
		tmo = minReadTimeout
	}
	if tmo > maxReadTimeout {
		tmo = maxReadTimeout
	}
	return []string{
		"++mode 1",
		"++auto 0",
		"++eoi 1",
		"++eos 1",
		fmt.Sprintf("++read_tmo_ms %d", tmo.Milliseconds()),
		fmt.Sprintf("++addr %d", cfg.Address),
	}
}

// Close closes the underlying port or connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.rw.Close()
}

// ---- transport.Transport ----

func (c *Client) Write(cmd string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return transport.ErrClosed
	}
	return c.send(escape(cmd))
}

func (c *Client) Query(cmd string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return "", transport.ErrClosed
	}
	if err := c.send(escape(cmd)); err != nil {
		return "", err
	}
	if err := c.send("++read eoi"); err != nil {
		return "", err
	}
	return c.readLine()
}

// ---- internal helpers ----

func (c *Client) controller(cmd string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.send(cmd)
}

func (c *Client) arm() {
	if d, ok := c.rw.(deadliner); ok && c.timeout > 0 {
		_ = d.SetDeadline(time.Now().Add(c.timeout))
	}
}

func (c *Client) send(line string) error {
	c.arm()
	b := []byte(line + "\n")
	for len(b) > 0 {
		n, err := c.rw.Write(b)
		if err != nil {
			return classify(err)
		}
		b = b[n:]
	}
	return nil
}

// readLine reads one reply terminated by CR or LF. Terminators left over
// from the previous reply are skipped.
func (c *Client) readLine() (string, error) {
	c.arm()
	var sb strings.Builder
	for {
		b, err := c.r.ReadByte()
		if err != nil {
			return "", classify(err)
		}
		if b == '\r' || b == '\n' {
			if sb.Len() == 0 {
				continue
			}
			return strings.TrimSpace(sb.String()), nil
		}
		if sb.Len() >= maxReplyLen {
			return "", fmt.Errorf("prologix: reply exceeds %d bytes", maxReplyLen)
		}
		sb.WriteByte(b)
	}
}

// escape protects CR, LF, ESC and '+' so the controller passes them to
// the instrument instead of interpreting them.
func escape(cmd string) string {
	var sb strings.Builder
	for i := 0; i < len(cmd); i++ {
		switch b := cmd[i]; b {
		case '\r', '\n', esc, '+':
			sb.WriteByte(esc)
			sb.WriteByte(b)
		default:
			sb.WriteByte(b)
		}
	}
	return sb.String()
}

// classify maps port and socket timeouts to transport.ErrTimeout.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var ne net.Error
	if errors.Is(err, serial.ErrTimeout) ||
		errors.Is(err, os.ErrDeadlineExceeded) ||
		(errors.As(err, &ne) && ne.Timeout()) {
		return fmt.Errorf("%w: %v", transport.ErrTimeout, err)
	}
	return err
}
