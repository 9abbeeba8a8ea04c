// Package aht20 reads an AHT20 temperature/humidity sensor over any
// tinygo drivers.I2C, which includes hal.I2C handles:
//
//	bus, _ := hal.ClaimI2C("climate")
//	_ = bus.Init(100_000)
//	d := aht20.New(bus, aht20.Config{})
//	s, err := d.Read()
//
// Measurements are two-phase: Trigger starts a conversion and Collect
// fetches it, returning ErrNotReady while the sensor is busy. Read does both
// with bounded polling. Results are fixed-point (tenths of a unit).
package aht20

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"

	"halcode-go/errcode"
)

// Address is the fixed bus address of the sensor.
const Address = 0x38

const (
	cmdTrigger    = 0xAC
	cmdInitialize = 0xBE
	cmdSoftReset  = 0xBA
	cmdStatus     = 0x71

	statusBusy       = 0x80
	statusCalibrated = 0x08
)

var (
	ErrNotReady = errors.New("aht20: not ready")
	ErrCRC      = errors.New("aht20: crc mismatch")
)

type Config struct {
	// Address defaults to 0x38.
	Address uint16
	// PollInterval separates Collect attempts in Read. Default 15 ms.
	PollInterval time.Duration
	// CollectTimeout bounds Read. Default 250 ms.
	CollectTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Address == 0 {
		c.Address = Address
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 15 * time.Millisecond
	}
	if c.CollectTimeout <= 0 {
		c.CollectTimeout = 250 * time.Millisecond
	}
	return c
}

type Device struct {
	bus drivers.I2C
	cfg Config
	buf [7]byte
}

// New binds a sensor on an already initialised bus. It does not touch the
// device.
func New(bus drivers.I2C, cfg Config) *Device {
	return &Device{bus: bus, cfg: cfg.withDefaults()}
}

// Configure loads the calibration if the sensor reports it missing.
func (d *Device) Configure() error {
	st, err := d.Status()
	if err != nil {
		return err
	}
	if st&statusCalibrated != 0 {
		return nil
	}
	return d.bus.Tx(d.cfg.Address, []byte{cmdInitialize, 0x08, 0x00}, nil)
}

// Reset issues a soft reset; the sensor needs about 20 ms afterwards.
func (d *Device) Reset() error {
	return d.bus.Tx(d.cfg.Address, []byte{cmdSoftReset}, nil)
}

func (d *Device) Status() (byte, error) {
	var st [1]byte
	if err := d.bus.Tx(d.cfg.Address, []byte{cmdStatus}, st[:]); err != nil {
		return 0, err
	}
	return st[0], nil
}

// Trigger starts a conversion (about 80 ms).
func (d *Device) Trigger() error {
	return d.bus.Tx(d.cfg.Address, []byte{cmdTrigger, 0x33, 0x00}, nil)
}

// Collect reads a finished conversion into out.
func (d *Device) Collect(out *Sample) error {
	data := d.buf[:]
	if err := d.bus.Tx(d.cfg.Address, nil, data); err != nil {
		return err
	}
	if data[0]&statusCalibrated == 0 || data[0]&statusBusy != 0 {
		return ErrNotReady
	}
	if crc8(data[:6]) != data[6] {
		return ErrCRC
	}
	out.RawHumidity = uint32(data[1])<<12 | uint32(data[2])<<4 | uint32(data[3])>>4
	out.RawTemp = uint32(data[3]&0x0F)<<16 | uint32(data[4])<<8 | uint32(data[5])
	return nil
}

// Read triggers a conversion and polls until it is collected or
// CollectTimeout passes.
func (d *Device) Read() (Sample, error) {
	var s Sample
	if err := d.Trigger(); err != nil {
		return s, err
	}
	deadline := time.Now().Add(d.cfg.CollectTimeout)
	for {
		err := d.Collect(&s)
		if !errors.Is(err, ErrNotReady) {
			return s, err
		}
		if time.Now().After(deadline) {
			return s, errcode.New(errcode.Timeout, "aht20.read", "conversion not ready")
		}
		time.Sleep(d.cfg.PollInterval)
	}
}

// Sample holds one raw 20-bit reading pair.
type Sample struct {
	RawHumidity uint32
	RawTemp     uint32
}

// DeciRelHumidity is relative humidity in tenths of a percent.
func (s Sample) DeciRelHumidity() int32 {
	return int32(int64(s.RawHumidity) * 1000 >> 20)
}

// DeciCelsius is temperature in tenths of a degree.
func (s Sample) DeciCelsius() int32 {
	return int32(int64(s.RawTemp)*2000>>20) - 500
}

// crc8 is CRC-8/NRSC-5 as the sensor computes it: poly 0x31, init 0xFF.
func crc8(p []byte) byte {
	crc := byte(0xFF)
	for _, b := range p {
		crc ^= b
		for range 8 {
			if crc&0x80 != 0 {
				crc = crc<<1 ^ 0x31
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
