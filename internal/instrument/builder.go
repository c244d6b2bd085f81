// internal/instrument/builder.go
package instrument

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/tamzrod/hp3457a-dumper/internal/board"
	cfg "github.com/tamzrod/hp3457a-dumper/internal/config"
	"github.com/tamzrod/hp3457a-dumper/internal/transport"
	"github.com/tamzrod/hp3457a-dumper/internal/transport/prologix"
	"github.com/tamzrod/hp3457a-dumper/internal/transport/sim"
)

// NewDialer builds the Dialer for the configured adapter.
// Each dial is ONE attempt; there are no retries.
// Assumes config has already passed Validate and Normalize.
func NewDialer(c *cfg.Config) (Dialer, error) {
	t := c.Transport
	timeout := time.Duration(t.TimeoutMs) * time.Millisecond
	logger := slog.Default().With("adapter", t.Adapter)

	switch t.Adapter {
	case cfg.AdapterPrologixSerial:
		return func(res transport.Resource) (transport.Transport, error) {
			cl, err := prologix.OpenSerial(prologix.Config{
				Port:     t.Port,
				BaudRate: t.BaudRate,
				Address:  res.Address,
				Timeout:  timeout,
			})
			if err != nil {
				return nil, err
			}
			return transport.Logged(cl, logger), nil
		}, nil

	case cfg.AdapterPrologixTCP:
		return func(res transport.Resource) (transport.Transport, error) {
			cl, err := prologix.DialTCP(prologix.Config{
				Endpoint: t.Endpoint,
				Address:  res.Address,
				Timeout:  timeout,
			})
			if err != nil {
				return nil, err
			}
			return transport.Logged(cl, logger), nil
		}, nil

	case cfg.AdapterSimulator:
		id, err := board.ParseID(c.Simulator.Board)
		if err != nil {
			return nil, err
		}
		sc := sim.Config{Board: id, Seed: c.Simulator.Seed}
		if len(c.Simulator.Revision) == 2 {
			sc.Major, sc.Minor = c.Simulator.Revision[0], c.Simulator.Revision[1]
		}
		return func(transport.Resource) (transport.Transport, error) {
			return transport.Logged(sim.New(sc), logger), nil
		}, nil

	default:
		return nil, fmt.Errorf("instrument: unsupported adapter %q", t.Adapter)
	}
}
