// Package hal is the application-facing surface of the peripheral layer.
//
// Each peripheral has exactly one owner at a time. ClaimGPIO, ClaimUSART,
// ClaimSPI and ClaimI2C return owned handles; a second claimant gets
// errcode.BusInUse until the first handle is released. The flat functions
// (ConfigurePin, USARTWrite, I2CRead, ...) act for DefaultOwner and claim
// on first use.
//
// Handles call straight into the backend selected for the build; the only
// per-call overhead is an atomic ownership check.
package hal

import (
	"sync"
	"sync/atomic"

	"halcode-go/errcode"
	"halcode-go/internal/platform"
	"halcode-go/internal/registry"
	"halcode-go/types"
	"halcode-go/x/logx"
)

// DefaultOwner holds the peripherals used by the flat functions.
const DefaultOwner = "app"

// Target is the backend compiled into this build.
const Target = platform.Target

var reg = registry.New(registry.All...)

// Configure sets backend parameters. It fails once the backend is open,
// which happens on the first claim.
func Configure(cfg types.Config) error {
	if err := platform.Configure(cfg); err != nil {
		logx.For(logx.HAL).Warn("configuration ignored", "ref_clock_hz", cfg.RefClockHz,
			"poll_budget", cfg.PollBudget, logx.Err(err))
		return err
	}
	return nil
}

// lease wraps a registry lease with the checks every handle needs.
type lease struct {
	l *registry.Lease
}

func claim(owner string, id registry.ResourceID) (lease, error) {
	l, err := reg.Claim(owner, id)
	if err != nil {
		logx.For(logx.HAL).Warn("claim refused", "resource", string(id), "owner", owner, logx.Err(err))
		return lease{}, err
	}
	logx.For(logx.HAL).Debug("claimed", "resource", string(id), "owner", owner)
	return lease{l: l}, nil
}

func (h lease) check(op string) error {
	if !h.l.Valid() {
		return errcode.New(errcode.NotOwner, op, "handle released")
	}
	return nil
}

// Release returns the peripheral to the registry. Further calls on the
// handle fail with errcode.NotOwner.
func (h lease) Release() error {
	if err := h.l.Release(); err != nil {
		return err
	}
	logx.For(logx.HAL).Debug("released", "resource", string(h.l.ID()), "owner", h.l.Owner())
	return nil
}

// Owner is the name the handle was claimed under.
func (h lease) Owner() string { return h.l.Owner() }

// Owner reports who holds a peripheral.
func Owner(id registry.ResourceID) (string, bool) { return reg.Owner(id) }

// ---- default handles for the flat functions ----

type defaultSlot[H any] struct {
	mu sync.Mutex
	h  atomic.Pointer[H]
}

// get returns the live default handle, claiming one if needed.
func (s *defaultSlot[H]) get(valid func(*H) bool, claim func(string) (*H, error)) (*H, error) {
	if h := s.h.Load(); h != nil && valid(h) {
		return h, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if h := s.h.Load(); h != nil && valid(h) {
		return h, nil
	}
	h, err := claim(DefaultOwner)
	if err != nil {
		return nil, err
	}
	s.h.Store(h)
	return h, nil
}

func (s *defaultSlot[H]) release(rel func(*H) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h := s.h.Swap(nil); h != nil {
		_ = rel(h)
	}
}

var defaults struct {
	gpio  defaultSlot[GPIO]
	usart defaultSlot[Serial]
	spi   defaultSlot[SPI]
	i2c   defaultSlot[I2C]
}

func defaultGPIO() (*GPIO, error) {
	return defaults.gpio.get(func(h *GPIO) bool { return h.l.Valid() }, ClaimGPIO)
}

func defaultUSART() (*Serial, error) {
	return defaults.usart.get(func(h *Serial) bool { return h.l.Valid() }, ClaimUSART)
}

func defaultSPI() (*SPI, error) {
	return defaults.spi.get(func(h *SPI) bool { return h.l.Valid() }, ClaimSPI)
}

func defaultI2C() (*I2C, error) {
	return defaults.i2c.get(func(h *I2C) bool { return h.l.Valid() }, ClaimI2C)
}

// ReleaseDefaults gives back every peripheral the flat functions claimed.
func ReleaseDefaults() {
	defaults.gpio.release(func(h *GPIO) error { return h.Release() })
	defaults.usart.release(func(h *Serial) error { return h.Release() })
	defaults.spi.release(func(h *SPI) error { return h.Release() })
	defaults.i2c.release(func(h *I2C) error { return h.Release() })
}

// ---- flat surface ----

func ConfigurePin(pin types.Pin, mode types.PinMode) error {
	g, err := defaultGPIO()
	if err != nil {
		return err
	}
	return g.ConfigurePin(pin, mode)
}

func WritePin(pin types.Pin, v types.PinValue) error {
	g, err := defaultGPIO()
	if err != nil {
		return err
	}
	return g.WritePin(pin, v)
}

func ReadPin(pin types.Pin) (types.PinValue, error) {
	g, err := defaultGPIO()
	if err != nil {
		return types.Low, err
	}
	return g.ReadPin(pin)
}

func USARTInit(baud uint32) error {
	u, err := defaultUSART()
	if err != nil {
		return err
	}
	return u.Init(baud)
}

func USARTWrite(b byte) error {
	u, err := defaultUSART()
	if err != nil {
		return err
	}
	return u.WriteByte(b)
}

func USARTRead() (byte, error) {
	u, err := defaultUSART()
	if err != nil {
		return 0, err
	}
	return u.ReadByte()
}

func SPIInitMaster() error {
	s, err := defaultSPI()
	if err != nil {
		return err
	}
	return s.InitMaster()
}

func SPIInitSlave() error {
	s, err := defaultSPI()
	if err != nil {
		return err
	}
	return s.InitSlave()
}

func SPIWrite(b byte) error {
	s, err := defaultSPI()
	if err != nil {
		return err
	}
	return s.WriteByte(b)
}

func SPIRead() (byte, error) {
	s, err := defaultSPI()
	if err != nil {
		return 0, err
	}
	return s.ReadByte()
}

func SPITransfer(b byte) (byte, error) {
	s, err := defaultSPI()
	if err != nil {
		return 0, err
	}
	return s.Transfer(b)
}

func I2CInit(hz uint32) error {
	d, err := defaultI2C()
	if err != nil {
		return err
	}
	return d.Init(hz)
}

func I2CWrite(addr uint8, data []byte) error {
	d, err := defaultI2C()
	if err != nil {
		return err
	}
	return d.Write(addr, data)
}

// I2CRead fills buf from addr and returns the last byte read (0 for an
// empty buf). buf is the result; the return value is a convenience.
func I2CRead(addr uint8, buf []byte) (byte, error) {
	d, err := defaultI2C()
	if err != nil {
		return 0, err
	}
	return d.Read(addr, buf)
}

// warn logs a failed operation at Warn.
func warn(op string, err error) error {
	if err != nil {
		logx.For(logx.HAL).Warn("operation failed", "op", op, logx.Err(err))
	}
	return err
}
