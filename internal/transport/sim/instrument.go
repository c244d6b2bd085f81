// internal/transport/sim/instrument.go
package sim

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"

	"github.com/tamzrod/hp3457a-dumper/internal/board"
	"github.com/tamzrod/hp3457a-dumper/internal/errreg"
	"github.com/tamzrod/hp3457a-dumper/internal/transport"
)

// MemorySize is the instrument's 16-bit address space.
const MemorySize = 0x10000

// Config describes the simulated unit.
type Config struct {
	Board  board.ID
	Major  int
	Minor  int
	Memory []byte // copied; nil fills the address space from Seed
	Seed   int64
	FailAt int // command index (1-based) that times out; 0 never
}

// Instrument is an in-memory HP 3457A answering the command subset the
// dumper uses. It implements transport.Transport.
type Instrument struct {
	mu       sync.Mutex
	cfg      Config
	mem      []byte
	errReg   errreg.Set
	commands []string
	closed   bool
}

// New builds a simulated instrument.
func New(cfg Config) *Instrument {
	mem := make([]byte, MemorySize)
	if cfg.Memory != nil {
		copy(mem, cfg.Memory)
	} else {
		rng := rand.New(rand.NewSource(cfg.Seed))
		rng.Read(mem)
	}
	return &Instrument{cfg: cfg, mem: mem}
}

// Commands returns every command received so far, in order.
func (in *Instrument) Commands() []string {
	in.mu.Lock()
	defer in.mu.Unlock()
	out := make([]string, len(in.commands))
	copy(out, in.commands)
	return out
}

// Memory returns a copy of the memory image.
func (in *Instrument) Memory() []byte {
	in.mu.Lock()
	defer in.mu.Unlock()
	out := make([]byte, len(in.mem))
	copy(out, in.mem)
	return out
}

// Closed reports whether Close was called.
func (in *Instrument) Closed() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.closed
}

// ---- transport.Transport ----

func (in *Instrument) Write(cmd string) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if err := in.receive(cmd); err != nil {
		return err
	}
	in.execute(cmd)
	return nil
}

func (in *Instrument) Query(cmd string) (string, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if err := in.receive(cmd); err != nil {
		return "", err
	}
	return in.execute(cmd), nil
}

func (in *Instrument) Close() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.closed = true
	return nil
}

// ---- command handling ----

func (in *Instrument) receive(cmd string) error {
	if in.closed {
		return transport.ErrClosed
	}
	in.commands = append(in.commands, cmd)
	if in.cfg.FailAt > 0 && len(in.commands) >= in.cfg.FailAt {
		return fmt.Errorf("%w: simulated bus timeout on %q", transport.ErrTimeout, cmd)
	}
	return nil
}

func (in *Instrument) execute(cmd string) string {
	name, arg, hasArg := strings.Cut(strings.TrimSpace(cmd), " ")

	switch name {
	case "END":
		if arg != "ALWAYS" {
			in.raise(errreg.UnknownParameter)
		}
		return ""

	case "PRESET":
		return ""

	case "ERR?":
		reg := in.errReg
		in.errReg = 0
		return formatNumber(float64(reg))

	case "REV?":
		return fmt.Sprintf("%d,%d", in.cfg.Major, in.cfg.Minor)

	case "POKE":
		if in.cfg.Board != board.A1_66511 {
			in.raise(errreg.UnknownCommand)
			return ""
		}
		if !hasArg {
			in.raise(errreg.RequiredParameterMissing)
		}
		return ""

	case "PEEK":
		if !hasArg {
			in.raise(errreg.RequiredParameterMissing)
			return ""
		}
		addr, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
		if err != nil {
			in.raise(errreg.Syntax)
			return ""
		}
		if addr < 0 || addr >= MemorySize {
			in.raise(errreg.ParameterOutOfRange)
			return ""
		}
		return formatNumber(float64(in.word(int(addr))))

	default:
		in.raise(errreg.UnknownCommand)
		return ""
	}
}

func (in *Instrument) raise(f errreg.Flag) {
	in.errReg |= errreg.Set(f)
}

// word packs addr (low byte) and addr+1 (high byte) into a signed word,
// the way PEEK answers on the real unit.
func (in *Instrument) word(addr int) int16 {
	lo := in.mem[addr]
	hi := in.mem[(addr+1)%MemorySize]
	return int16(uint16(hi)<<8 | uint16(lo))
}

// formatNumber renders v in exponent form with an unpadded exponent,
// e.g. "1.60000E+1"; every reply must go through a float parse.
func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'E', 5, 64)
	mant, exp, _ := strings.Cut(s, "E")
	e, _ := strconv.Atoi(exp)
	return fmt.Sprintf("%sE%+d", mant, e)
}
