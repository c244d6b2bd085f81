// internal/instrument/session.go
package instrument

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tamzrod/hp3457a-dumper/internal/board"
	"github.com/tamzrod/hp3457a-dumper/internal/errreg"
	"github.com/tamzrod/hp3457a-dumper/internal/transport"
)

// Detection protocol commands. Strings and order are load-bearing.
const (
	cmdEndAlways = "END ALWAYS" // assert EOI on every reply
	cmdPreset    = "PRESET"
	cmdErr       = "ERR?"
	cmdPoke      = "POKE" // valid on 66511 (needs an address), unknown on 66501
	cmdRev       = "REV?"
)

// ErrBoardDetection is matched by every *DetectionError.
var ErrBoardDetection = errors.New("instrument: A1 board detection failed")

// DetectionError carries the error register observed after the POKE probe.
type DetectionError struct {
	Reply string
	Flags errreg.Set
}

func (e *DetectionError) Error() string {
	return fmt.Sprintf("%v: errors detected after POKE: %s (ERR? %q)", ErrBoardDetection, e.Flags, e.Reply)
}

func (e *DetectionError) Unwrap() error { return ErrBoardDetection }

// Session is one open, identified instrument.
// It exclusively owns its transport until Close.
type Session struct {
	mu    sync.Mutex
	tr    transport.Transport
	board *board.Board
	rev   Revision

	closeOnce sync.Once
	closeErr  error
}

// Dialer opens a transport to a GPIB resource.
type Dialer func(res transport.Resource) (transport.Transport, error)

// Select dials res and runs the detection protocol on it.
func Select(res transport.Resource, dial Dialer) (*Session, error) {
	tr, err := dial(res)
	if err != nil {
		return nil, fmt.Errorf("instrument: open %s: %w", res, err)
	}
	s, err := Open(tr)
	if err != nil {
		return nil, fmt.Errorf("instrument: %s: %w", res, err)
	}
	slog.Info("instrument detected", "resource", res.String(), "board", s.board.Name(), "rev", s.rev.String())
	return s, nil
}

// Open identifies the instrument behind tr. The session takes ownership
// of tr; on failure tr is closed before returning.
func Open(tr transport.Transport) (*Session, error) {
	id, err := detect(tr)
	if err != nil {
		_ = tr.Close()
		return nil, err
	}

	b, err := board.For(id)
	if err != nil {
		_ = tr.Close()
		return nil, err
	}

	reply, err := tr.Query(cmdRev)
	if err != nil {
		_ = tr.Close()
		return nil, err
	}
	rev, err := ParseRevision(reply)
	if err != nil {
		_ = tr.Close()
		return nil, err
	}

	return &Session{tr: tr, board: b, rev: rev}, nil
}

// detect runs the POKE probe and classifies the board.
func detect(tr transport.Transport) (board.ID, error) {
	if err := tr.Write(cmdEndAlways); err != nil {
		return 0, err
	}
	if err := tr.Write(cmdPreset); err != nil {
		return 0, err
	}
	// Clear latent error state; the reply is discarded.
	if _, err := tr.Query(cmdErr); err != nil {
		return 0, err
	}
	if err := tr.Write(cmdPoke); err != nil {
		return 0, err
	}

	reply, err := tr.Query(cmdErr)
	if err != nil {
		return 0, err
	}
	flags, err := errreg.Decode(reply)
	if err != nil {
		return 0, err
	}
	slog.Debug("POKE probe", "err", flags.String())

	switch {
	case flags.Has(errreg.UnknownCommand):
		return board.A1_66501, nil
	case flags.Has(errreg.RequiredParameterMissing):
		return board.A1_66511, nil
	default:
		return 0, &DetectionError{Reply: reply, Flags: flags}
	}
}

// Board returns the detected region table.
func (s *Session) Board() *board.Board { return s.board }

// Revision returns the firmware revision.
func (s *Session) Revision() Revision { return s.rev }

// Query forwards one request/reply exchange.
func (s *Session) Query(cmd string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tr.Query(cmd)
}

// Write forwards one command.
func (s *Session) Write(cmd string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tr.Write(cmd)
}

// Close releases the transport. Safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.closeErr = s.tr.Close()
	})
	return s.closeErr
}
