package errcode

import (
	"errors"
	"fmt"
	"testing"
)

func TestCodesAreStableStrings(t *testing.T) {
	cases := map[string]Code{
		"ok":                  OK,
		"invalid_pin":         InvalidPin,
		"invalid_mode":        InvalidMode,
		"invalid_baud_rate":   InvalidBaud,
		"invalid_clock_speed": InvalidClock,
		"invalid_address":     InvalidAddress,
		"unsupported":         Unsupported,
		"timeout":             Timeout,
		"nack":                Nack,
		"bus_in_use":          BusInUse,
		"not_owner":           NotOwner,
		"error":               Error,
	}
	for want, c := range cases {
		if c.Error() != want {
			t.Fatalf("code %q mismatch: got %q", want, c.Error())
		}
	}
}

func TestOfUnwrapsWrappedE(t *testing.T) {
	base := New(Timeout, "i2c.start", "SB never set")
	wrapped := fmt.Errorf("sensor read: %w", base)

	if got := Of(wrapped); got != Timeout {
		t.Fatalf("Of(wrapped)=%q want %q", got, Timeout)
	}
	if !errors.Is(wrapped, Timeout) {
		t.Fatal("errors.Is(wrapped, Timeout) = false")
	}
	if errors.Is(wrapped, Nack) {
		t.Fatal("errors.Is(wrapped, Nack) = true")
	}
	if got := Of(nil); got != OK {
		t.Fatalf("Of(nil)=%q", got)
	}
	if got := Of(errors.New("x")); got != Error {
		t.Fatalf("Of(plain)=%q", got)
	}
	if got := Of(fmt.Errorf("bare: %w", InvalidPin)); got != InvalidPin {
		t.Fatalf("Of(wrapped code)=%q", got)
	}
}

func TestErrorFormat(t *testing.T) {
	err := New(InvalidBaud, "usart.init", "divisor 70000 exceeds 16 bits")
	if got, want := err.Error(), "usart.init: invalid_baud_rate: divisor 70000 exceeds 16 bits"; got != want {
		t.Fatalf("Error()=%q want %q", got, want)
	}
	cause := errors.New("inner")
	w := Wrap(Error, "op", cause)
	if !errors.Is(w, cause) {
		t.Fatal("Wrap lost its cause")
	}
}

func TestRetryable(t *testing.T) {
	for _, c := range []Code{Timeout, Nack, BusInUse} {
		if !Retryable(New(c, "op", "")) {
			t.Fatalf("%q should be retryable", c)
		}
	}
	for _, c := range []Code{InvalidPin, InvalidBaud, InvalidClock, InvalidAddress, NotOwner} {
		if Retryable(New(c, "op", "")) {
			t.Fatalf("%q should not be retryable", c)
		}
	}
	if Retryable(nil) {
		t.Fatal("nil should not be retryable")
	}
}
