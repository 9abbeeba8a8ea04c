// Package i2cseq sequences I2C master transactions over a backend's bus
// primitives:
//
//	IDLE -> START -> ADDRESS -> TRANSFER (xN) -> STOP -> IDLE
//
// Once Start has been attempted, Stop is always issued before returning,
// including on timeouts and NACKs, so the bus is released on every path.
package i2cseq

import (
	"halcode-go/errcode"
	"halcode-go/types"
)

// Phy is one backend's view of the bus. Each method performs one phase and
// waits, within the backend's poll budget, for the hardware to confirm it.
type Phy interface {
	// Start asserts a start condition, or a repeated start mid-transaction.
	Start() error
	// Address sends the 7-bit address with the direction bit.
	Address(addr uint8, read bool) error
	// Send sends one data byte and waits for the byte-complete flag.
	Send(b byte) error
	// Recv receives one byte, answering ACK when ack is true, NACK otherwise.
	Recv(ack bool) (byte, error)
	// Stop asserts a stop condition. It does not wait.
	Stop()
}

// ReadSizer is implemented by a Phy that must program its acknowledge
// logic before the read address phase completes. PrepareRead is called with
// the read length just before Address(addr, true).
type ReadSizer interface {
	PrepareRead(n int)
}

func addressRead(p Phy, addr uint8, n int) error {
	if rs, ok := p.(ReadSizer); ok {
		rs.PrepareRead(n)
	}
	return p.Address(addr, true)
}

func checkAddr(op string, addr uint16) error {
	if addr > types.MaxI2CAddress {
		return errcode.New(errcode.InvalidAddress, op, "7-bit address required")
	}
	return nil
}

// Write sends data to addr in one transaction.
func Write(p Phy, addr uint8, data []byte) (err error) {
	if err = checkAddr("i2c.write", uint16(addr)); err != nil {
		return err
	}
	defer p.Stop()
	if err = p.Start(); err != nil {
		return err
	}
	if err = p.Address(addr, false); err != nil {
		return err
	}
	return writeAll(p, data)
}

// Read fills buf from addr in one transaction. Every byte but the last is
// ACKed; the last is NACKed so the target stops driving the bus. It returns
// the last byte read, or 0 when buf is empty.
func Read(p Phy, addr uint8, buf []byte) (last byte, err error) {
	if err = checkAddr("i2c.read", uint16(addr)); err != nil {
		return 0, err
	}
	defer p.Stop()
	if err = p.Start(); err != nil {
		return 0, err
	}
	if err = addressRead(p, addr, len(buf)); err != nil {
		return 0, err
	}
	return readAll(p, buf)
}

// Tx writes w then, after a repeated start, reads r, without releasing the
// bus in between. Empty w and r only check that the address acknowledges.
func Tx(p Phy, addr uint16, w, r []byte) (err error) {
	if err = checkAddr("i2c.tx", addr); err != nil {
		return err
	}
	a := uint8(addr)
	defer p.Stop()
	if err = p.Start(); err != nil {
		return err
	}
	if len(w) > 0 || len(r) == 0 {
		if err = p.Address(a, false); err != nil {
			return err
		}
		if err = writeAll(p, w); err != nil {
			return err
		}
		if len(r) == 0 {
			return nil
		}
		if err = p.Start(); err != nil {
			return err
		}
	}
	if err = addressRead(p, a, len(r)); err != nil {
		return err
	}
	_, err = readAll(p, r)
	return err
}

func writeAll(p Phy, data []byte) error {
	for _, b := range data {
		if err := p.Send(b); err != nil {
			return err
		}
	}
	return nil
}

func readAll(p Phy, buf []byte) (last byte, err error) {
	for i := range buf {
		b, err := p.Recv(i < len(buf)-1)
		if err != nil {
			return last, err
		}
		buf[i] = b
		last = b
	}
	return last, nil
}
