// internal/errreg/flags.go
package errreg

// Error register bit layout of the HP 3457A.
// These values are defined by the instrument and MUST NOT be configurable.

// Flag is one bit of the error register. The mask is the identity.
type Flag uint16

const (
	Hardware                 Flag = 1 << iota // bit 0
	CalOrACal                                 // bit 1
	TriggerTooFast                            // bit 2
	Syntax                                    // bit 3
	UnknownCommand                            // bit 4
	UnknownParameter                          // bit 5
	ParameterOutOfRange                       // bit 6
	RequiredParameterMissing                  // bit 7
	ParameterIgnored                          // bit 8
	OutOfCalibration                          // bit 9
	AutocalRequired                           // bit 10
)

// All lists the known flags in ascending bit order.
var All = [...]Flag{
	Hardware,
	CalOrACal,
	TriggerTooFast,
	Syntax,
	UnknownCommand,
	UnknownParameter,
	ParameterOutOfRange,
	RequiredParameterMissing,
	ParameterIgnored,
	OutOfCalibration,
	AutocalRequired,
}

// KnownMask is the union of every known flag.
const KnownMask = uint16(AutocalRequired<<1 - 1)

var descriptions = map[Flag]string{
	Hardware:                 "Hardware error - check the auxiliary error register",
	CalOrACal:                "Error in the CAL or ACAL process",
	TriggerTooFast:           "Trigger too fast",
	Syntax:                   "Syntax error",
	UnknownCommand:           "Unknown command received",
	UnknownParameter:         "Unknown parameter received",
	ParameterOutOfRange:      "Parameter out of range",
	RequiredParameterMissing: "Required parameter missing",
	ParameterIgnored:         "Parameter ignored",
	OutOfCalibration:         "Out of calibration",
	AutocalRequired:          "Autocal required",
}

// Description returns the manual's text for the flag.
func (f Flag) Description() string {
	if d, ok := descriptions[f]; ok {
		return d
	}
	return "Unrecognized error"
}

func (f Flag) String() string { return f.Description() }
