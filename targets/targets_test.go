package targets

import (
	"errors"
	"testing"

	"halcode-go/errcode"
	"halcode-go/internal/platform/atmega328p"
	"halcode-go/internal/platform/cortexm3"
	"halcode-go/internal/registry"
)

func TestTableMatchesBackends(t *testing.T) {
	cases := []struct {
		name string
		pins uint8
		baud func(ref, baud uint32) error
		i2c  func(ref, hz uint32) error
	}{
		{
			name: atmega328p.Name,
			pins: atmega328p.NumPins,
			baud: func(ref, b uint32) error { _, err := atmega328p.UBRR(ref, b); return err },
			i2c:  func(ref, hz uint32) error { _, _, err := atmega328p.BitRate(ref, hz); return err },
		},
		{
			name: cortexm3.Name,
			pins: cortexm3.NumPins,
			baud: func(ref, b uint32) error { _, err := cortexm3.BRR(ref, b); return err },
			i2c:  func(ref, hz uint32) error { _, err := cortexm3.ClockTiming(ref, hz); return err },
		},
	}
	for _, c := range cases {
		tg, err := All().Find(c.name)
		if err != nil {
			t.Fatal(err)
		}
		if tg.GPIO.Pins != c.pins {
			t.Errorf("%s: pins %d, backend %d", c.name, tg.GPIO.Pins, c.pins)
		}
		ref, l := tg.RefClockHz, tg.Limits
		for _, b := range []uint32{l.MinBaud, l.MaxBaud} {
			if err := c.baud(ref, b); err != nil {
				t.Errorf("%s: baud %d in table but backend says %v", c.name, b, err)
			}
		}
		for _, b := range []uint32{l.MinBaud - 1, l.MaxBaud + 1} {
			if err := c.baud(ref, b); !errors.Is(err, errcode.InvalidBaud) {
				t.Errorf("%s: baud %d outside table but backend says %v", c.name, b, err)
			}
		}
		for _, hz := range []uint32{l.MinI2CHz, l.MaxI2CHz} {
			if err := c.i2c(ref, hz); err != nil {
				t.Errorf("%s: i2c %d in table but backend says %v", c.name, hz, err)
			}
		}
		for _, hz := range []uint32{l.MinI2CHz - 1, l.MaxI2CHz + 1} {
			if err := c.i2c(ref, hz); !errors.Is(err, errcode.InvalidClock) {
				t.Errorf("%s: i2c %d outside table but backend says %v", c.name, hz, err)
			}
		}
		for _, id := range registry.All {
			if id != registry.GPIO && !tg.HasController(string(id)) {
				t.Errorf("%s: missing controller %s", c.name, id)
			}
		}
	}
}

func TestFindAndChecks(t *testing.T) {
	tg, err := All().Find("ATmega328P")
	if err != nil {
		t.Fatal(err)
	}
	if tg.BuildTags() != "tinygo,atmega328p" {
		t.Fatalf("tags %q", tg.BuildTags())
	}
	if tg.Config().RefClockHz != 16_000_000 {
		t.Fatal("ref clock")
	}
	if err := tg.CheckPin(7); err != nil {
		t.Fatal(err)
	}
	if err := tg.CheckPin(8); !errors.Is(err, errcode.InvalidPin) {
		t.Fatalf("pin 8: %v", err)
	}
	if err := tg.CheckBaud(9600); err != nil {
		t.Fatal(err)
	}
	if err := tg.CheckI2CHz(1_000_000); !errors.Is(err, errcode.InvalidClock) {
		t.Fatalf("1 MHz: %v", err)
	}
	if _, err := All().Find("esp32"); !errors.Is(err, errcode.Unsupported) {
		t.Fatalf("unknown target: %v", err)
	}
	if got := All().Names(); len(got) != 2 {
		t.Fatalf("Names=%v", got)
	}
}

func TestValidateRejectsBrokenEntries(t *testing.T) {
	bad := []Target{
		{},
		{Name: "x"},
		{Name: "x", RefClockHz: 1, GPIO: GPIO{Pins: 40}},
		{Name: "x", RefClockHz: 1, GPIO: GPIO{Pins: 8}, Limits: Limits{MinBaud: 10, MaxBaud: 1}},
	}
	for i, tg := range bad {
		if tg.Validate() == nil {
			t.Errorf("case %d accepted", i)
		}
	}
}
