package types

import "halcode-go/errcode"

// ------------------------
// GPIO
// ------------------------

// MaxPins bounds every pin index the HAL accepts. Backends narrow it further
// to the width of their port.
const MaxPins = 32

// Pin is a bit position within a port's register set.
type Pin uint8

// NewPin validates n against MaxPins.
func NewPin(n int) (Pin, error) {
	if n < 0 || n >= MaxPins {
		return 0, errcode.New(errcode.InvalidPin, "gpio.pin", "must be between 0 and 31")
	}
	return Pin(n), nil
}

func (p Pin) Number() uint8 { return uint8(p) }

type PinMode uint8

const (
	PinInput PinMode = iota
	PinOutput
	PinInputPullup
)

func (m PinMode) String() string {
	switch m {
	case PinInput:
		return "input"
	case PinOutput:
		return "output"
	case PinInputPullup:
		return "input_pullup"
	default:
		return "unknown"
	}
}

// PinValue is a sampled or driven logic level.
type PinValue uint8

const (
	Low PinValue = iota
	High
)

func (v PinValue) String() string {
	if v == High {
		return "high"
	}
	return "low"
}

// Level converts a bool to a PinValue.
func Level(b bool) PinValue {
	if b {
		return High
	}
	return Low
}

// GPIO configures and drives the pins of one port.
//
// Only the addressed pin's bits change; every mutation is a read-modify-write.
// Configure should precede Write/Read; misuse is not rejected, only ineffective.
type GPIO interface {
	ConfigurePin(p Pin, mode PinMode) error
	WritePin(p Pin, v PinValue) error
	ReadPin(p Pin) (PinValue, error)
	// NumPins is the width of the port.
	NumPins() uint8
}
