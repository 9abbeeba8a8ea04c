//go:build !tinygo

package aht20

import (
	"errors"
	"testing"
	"time"

	"halcode-go/errcode"
	"halcode-go/hal"
	"halcode-go/internal/platform"
)

// sensor models the AHT20 command set on the simulated bus.
type sensor struct {
	calibrated bool
	busyReads  int // frames reported busy after each trigger
	hum, temp  uint32
	corrupt    bool

	busy  int
	cmd   byte
	first bool
	out   []byte
	log   []byte
}

func (s *sensor) Address(read bool) bool {
	if !read {
		s.first = true
		return true
	}
	st := byte(0)
	if s.calibrated {
		st |= statusCalibrated
	}
	if s.cmd == cmdStatus {
		s.out = []byte{st}
		return true
	}
	if s.busy > 0 {
		s.busy--
		st |= statusBusy
	}
	f := []byte{
		st,
		byte(s.hum >> 12), byte(s.hum >> 4),
		byte(s.hum<<4) | byte(s.temp>>16&0x0F),
		byte(s.temp >> 8), byte(s.temp),
	}
	c := crc8(f)
	if s.corrupt {
		c ^= 1
	}
	s.out = append(f, c)
	return true
}

func (s *sensor) Write(b byte) bool {
	if s.first {
		s.first = false
		s.cmd = b
		s.log = append(s.log, b)
		switch b {
		case cmdInitialize:
			s.calibrated = true
		case cmdTrigger:
			s.busy = s.busyReads
		}
	}
	return true
}

func (s *sensor) Read() byte {
	if len(s.out) == 0 {
		return 0xFF
	}
	b := s.out[0]
	s.out = s.out[1:]
	return b
}

func (s *sensor) Stop() {}

func setup(t *testing.T, s *sensor) *Device {
	t.Helper()
	platform.Sim().I2C().Attach(Address, s)
	bus, err := hal.ClaimI2C("aht20")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = bus.Release() })
	if err := bus.Init(100_000); err != nil {
		t.Fatal(err)
	}
	return New(bus, Config{PollInterval: time.Millisecond, CollectTimeout: 20 * time.Millisecond})
}

func TestConfigureCalibratesOnce(t *testing.T) {
	s := &sensor{}
	d := setup(t, s)
	if err := d.Configure(); err != nil {
		t.Fatal(err)
	}
	if !s.calibrated {
		t.Fatal("init command not sent")
	}
	if err := d.Configure(); err != nil {
		t.Fatal(err)
	}
	want := []byte{cmdStatus, cmdInitialize, cmdStatus}
	if string(s.log) != string(want) {
		t.Fatalf("commands %x want %x", s.log, want)
	}
}

func TestReadPollsUntilReady(t *testing.T) {
	// 25.0 C and 50.0 %RH.
	s := &sensor{calibrated: true, busyReads: 2, hum: 1 << 19, temp: 393216}
	d := setup(t, s)
	got, err := d.Read()
	if err != nil {
		t.Fatal(err)
	}
	if got.DeciRelHumidity() != 500 || got.DeciCelsius() != 250 {
		t.Fatalf("rh=%d t=%d", got.DeciRelHumidity(), got.DeciCelsius())
	}
}

func TestCollectErrors(t *testing.T) {
	s := &sensor{calibrated: true, busyReads: 1, corrupt: true}
	d := setup(t, s)
	if err := d.Trigger(); err != nil {
		t.Fatal(err)
	}
	var out Sample
	if err := d.Collect(&out); !errors.Is(err, ErrNotReady) {
		t.Fatalf("busy frame: %v", err)
	}
	if err := d.Collect(&out); !errors.Is(err, ErrCRC) {
		t.Fatalf("corrupt frame: %v", err)
	}
}

func TestReadTimesOutWhileBusy(t *testing.T) {
	s := &sensor{calibrated: true, busyReads: 1 << 30}
	d := setup(t, s)
	if _, err := d.Read(); !errors.Is(err, errcode.Timeout) {
		t.Fatalf("err %v", err)
	}
}

func TestCRC8(t *testing.T) {
	// Datasheet check value for CRC-8 poly 0x31 init 0xFF.
	if got := crc8([]byte{0xBE, 0xEF}); got != 0x92 {
		t.Fatalf("crc8=%#x", got)
	}
}
