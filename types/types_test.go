package types

import (
	"errors"
	"testing"

	"halcode-go/errcode"
)

func TestNewPinRange(t *testing.T) {
	for n := 0; n < MaxPins; n++ {
		p, err := NewPin(n)
		if err != nil {
			t.Fatalf("NewPin(%d): %v", n, err)
		}
		if int(p.Number()) != n {
			t.Fatalf("NewPin(%d).Number()=%d", n, p.Number())
		}
	}
	for _, n := range []int{32, 33, 255, 1 << 20, -1} {
		if _, err := NewPin(n); !errors.Is(err, errcode.InvalidPin) {
			t.Fatalf("NewPin(%d): want invalid_pin, got %v", n, err)
		}
	}
}

func TestStrings(t *testing.T) {
	if PinOutput.String() != "output" || PinInput.String() != "input" || PinInputPullup.String() != "input_pullup" {
		t.Fatal("PinMode strings")
	}
	if High.String() != "high" || Low.String() != "low" {
		t.Fatal("PinValue strings")
	}
	if Level(true) != High || Level(false) != Low {
		t.Fatal("Level")
	}
	if SPIMaster.String() != "master" || SPISlave.String() != "slave" || SPIOff.String() != "off" {
		t.Fatal("SPIRole strings")
	}
}

type scriptedSPI struct {
	calls []string
	rx    byte
	werr  error
}

func (s *scriptedSPI) WriteByte(b byte) error {
	s.calls = append(s.calls, "write")
	return s.werr
}
func (s *scriptedSPI) ReadByte() (byte, error) {
	s.calls = append(s.calls, "read")
	return s.rx, nil
}

func TestDefaultTransferIsWriteThenRead(t *testing.T) {
	s := &scriptedSPI{rx: 0xA5}
	got, err := DefaultTransfer(s, 0x42)
	if err != nil || got != 0xA5 {
		t.Fatalf("DefaultTransfer=%#x,%v", got, err)
	}
	if len(s.calls) != 2 || s.calls[0] != "write" || s.calls[1] != "read" {
		t.Fatalf("call order %v", s.calls)
	}

	s = &scriptedSPI{werr: errcode.Timeout}
	if _, err := DefaultTransfer(s, 0); !errors.Is(err, errcode.Timeout) {
		t.Fatalf("write error not propagated: %v", err)
	}
	if len(s.calls) != 1 {
		t.Fatalf("read issued after failed write: %v", s.calls)
	}
}

func TestConfigDefaults(t *testing.T) {
	c := Config{}.WithDefaults()
	if c.RefClockHz != DefaultRefClockHz {
		t.Fatalf("RefClockHz=%d", c.RefClockHz)
	}
	c = Config{RefClockHz: 8_000_000}.WithDefaults()
	if c.RefClockHz != 8_000_000 {
		t.Fatal("explicit RefClockHz overwritten")
	}
}
