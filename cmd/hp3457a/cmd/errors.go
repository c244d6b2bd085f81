// cmd/hp3457a/cmd/errors.go
package cmd

import (
	"errors"

	"github.com/tamzrod/hp3457a-dumper/internal/archive"
	"github.com/tamzrod/hp3457a-dumper/internal/dump"
	"github.com/tamzrod/hp3457a-dumper/internal/errreg"
	"github.com/tamzrod/hp3457a-dumper/internal/instrument"
	"github.com/tamzrod/hp3457a-dumper/internal/transport"
)

// Exit codes.
const (
	exitOK       = 0
	exitUsage    = 1
	exitTimeout  = 2
	exitProtocol = 3
	exitVerify   = 4
	exitIO       = 5
)

// usageError marks bad flags or config.
type usageError struct{ err error }

func (u usageError) Error() string { return u.err.Error() }
func (u usageError) Unwrap() error { return u.err }

// exitCode maps an error to a process exit code without assuming
// concrete types beyond the sentinels each package exports.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}

	var ue usageError
	var me *dump.MismatchError
	switch {
	case errors.As(err, &ue), errors.Is(err, dump.ErrSingleByteRegion), errors.Is(err, dump.ErrInvalidRange):
		return exitUsage
	case errors.Is(err, transport.ErrTimeout):
		return exitTimeout
	case errors.Is(err, instrument.ErrBoardDetection),
		errors.Is(err, instrument.ErrRevisionParse),
		errors.Is(err, errreg.ErrMalformedRegister),
		errors.Is(err, dump.ErrMalformedPeek):
		return exitProtocol
	case errors.As(err, &me):
		return exitVerify
	case errors.Is(err, archive.ErrMalformedLine), errors.Is(err, archive.ErrNotContiguous):
		return exitIO
	}
	return exitUsage
}
