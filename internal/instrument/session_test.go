// internal/instrument/session_test.go
package instrument

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/hp3457a-dumper/internal/board"
	"github.com/tamzrod/hp3457a-dumper/internal/errreg"
	"github.com/tamzrod/hp3457a-dumper/internal/transport"
	"github.com/tamzrod/hp3457a-dumper/internal/transport/sim"
)

// scripted answers ERR? and REV? with fixed replies.
type scripted struct {
	errAfterPoke string
	rev          string
	poked        bool
	commands     []string
	closed       bool
}

func (s *scripted) Write(cmd string) error {
	s.commands = append(s.commands, cmd)
	if cmd == "POKE" {
		s.poked = true
	}
	return nil
}

func (s *scripted) Query(cmd string) (string, error) {
	s.commands = append(s.commands, cmd)
	switch cmd {
	case "ERR?":
		if s.poked {
			return s.errAfterPoke, nil
		}
		return "0", nil
	case "REV?":
		return s.rev, nil
	}
	return "", errors.New("unexpected query " + cmd)
}

func (s *scripted) Close() error {
	s.closed = true
	return nil
}

func TestOpen_ProtocolOrder(t *testing.T) {
	in := sim.New(sim.Config{Board: board.A1_66501, Major: 4, Minor: 1})

	s, err := Open(in)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, []string{"END ALWAYS", "PRESET", "ERR?", "POKE", "ERR?", "REV?"}, in.Commands())
}

func TestOpen_UnknownCommandIsOldBoard(t *testing.T) {
	in := sim.New(sim.Config{Board: board.A1_66501, Major: 4, Minor: 1})

	s, err := Open(in)
	require.NoError(t, err)

	assert.Equal(t, board.A1_66501, s.Board().ID())
	assert.Equal(t, Revision{Major: 4, Minor: 1}, s.Revision())
	assert.False(t, in.Closed())

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.True(t, in.Closed())
}

func TestOpen_RequiredParameterMissingIsNewBoard(t *testing.T) {
	in := sim.New(sim.Config{Board: board.A1_66511, Major: 6, Minor: 2})

	s, err := Open(in)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, board.A1_66511, s.Board().ID())
	assert.Equal(t, "6.2", s.Revision().String())
}

func TestOpen_UnknownCommandWinsOverOtherFlags(t *testing.T) {
	tr := &scripted{errAfterPoke: "24", rev: "4,1"} // syntax + unknown command
	s, err := Open(tr)
	require.NoError(t, err)
	assert.Equal(t, board.A1_66501, s.Board().ID())
}

func TestOpen_OtherFlagsFailDetection(t *testing.T) {
	for _, reply := range []string{"0", "8.00000E+0", "2048"} {
		tr := &scripted{errAfterPoke: reply, rev: "4,1"}

		_, err := Open(tr)
		require.ErrorIs(t, err, ErrBoardDetection, reply)

		var de *DetectionError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, reply, de.Reply)
		assert.False(t, de.Flags.Has(errreg.UnknownCommand))
		assert.True(t, tr.closed, "transport must be released on failure")
		assert.NotContains(t, tr.commands, "REV?")
	}
}

func TestOpen_DetectionErrorCarriesFlags(t *testing.T) {
	tr := &scripted{errAfterPoke: "8", rev: "4,1"}
	_, err := Open(tr)

	var de *DetectionError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, errreg.Set(errreg.Syntax), de.Flags)
	assert.Contains(t, err.Error(), "Syntax error")
}

func TestOpen_MalformedRegister(t *testing.T) {
	tr := &scripted{errAfterPoke: "garbage", rev: "4,1"}
	_, err := Open(tr)
	assert.ErrorIs(t, err, errreg.ErrMalformedRegister)
	assert.True(t, tr.closed)
}

func TestOpen_RevisionParseFailed(t *testing.T) {
	tr := &scripted{errAfterPoke: "16", rev: "4"}
	_, err := Open(tr)
	assert.ErrorIs(t, err, ErrRevisionParse)
	assert.True(t, tr.closed)
}

func TestOpen_TimeoutPropagates(t *testing.T) {
	in := sim.New(sim.Config{Board: board.A1_66511, FailAt: 5})
	_, err := Open(in)
	assert.ErrorIs(t, err, transport.ErrTimeout)
	assert.True(t, in.Closed())
}

func TestSelect_DialsResource(t *testing.T) {
	res, err := transport.ParseResource("GPIB0::22::INSTR")
	require.NoError(t, err)

	var dialed transport.Resource
	in := sim.New(sim.Config{Board: board.A1_66511, Major: 4, Minor: 1})

	s, err := Select(res, func(r transport.Resource) (transport.Transport, error) {
		dialed = r
		return in, nil
	})
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, res, dialed)
	assert.Equal(t, board.A1_66511, s.Board().ID())
}

func TestSelect_DialTimeout(t *testing.T) {
	_, err := Select(transport.Resource{Address: 22}, func(transport.Resource) (transport.Transport, error) {
		return nil, transport.ErrTimeout
	})
	assert.ErrorIs(t, err, transport.ErrTimeout)
}

func TestParseRevision(t *testing.T) {
	rev, err := ParseRevision("4,1")
	require.NoError(t, err)
	assert.Equal(t, Revision{Major: 4, Minor: 1}, rev)

	rev, err = ParseRevision(" 4.00000E+0, 1.00000E+0\r")
	require.NoError(t, err)
	assert.Equal(t, Revision{Major: 4, Minor: 1}, rev)

	for _, bad := range []string{"4", "4,1,0", "", "a,b"} {
		_, err := ParseRevision(bad)
		assert.ErrorIs(t, err, ErrRevisionParse, bad)
	}
}
