package errcode

import "errors"

// Code is a stable, caller-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	// Caller-contract and configuration errors.
	InvalidPin     Code = "invalid_pin"
	InvalidMode    Code = "invalid_mode"
	InvalidBaud    Code = "invalid_baud_rate"
	InvalidClock   Code = "invalid_clock_speed"
	InvalidAddress Code = "invalid_address"
	Unsupported    Code = "unsupported"

	// Bus and protocol conditions.
	Timeout Code = "timeout"
	Nack    Code = "nack"

	// Ownership.
	BusInUse Code = "bus_in_use"
	NotOwner Code = "not_owner"

	Error Code = "error" // generic fallback
)

// E keeps a code together with the failing operation and an optional cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Is lets errors.Is(err, errcode.Timeout) match a wrapped *E.
func (e *E) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.C
}

// New builds an *E for op.
func New(c Code, op, msg string) error {
	return &E{C: c, Op: op, Msg: msg}
}

// Wrap builds an *E for op around a cause.
func Wrap(c Code, op string, err error) error {
	return &E{C: c, Op: op, Err: err}
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	var x coder
	if errors.As(err, &x) {
		return x.Code()
	}
	var c Code
	if errors.As(err, &c) {
		return c
	}
	return Error
}

// Retryable reports whether repeating the same operation may succeed.
// Stalls, NACKs and ownership conflicts are transient; configuration
// and range errors are not.
func Retryable(err error) bool {
	switch Of(err) {
	case Timeout, Nack, BusInUse:
		return true
	default:
		return false
	}
}
