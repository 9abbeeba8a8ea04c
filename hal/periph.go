package hal

import (
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"halcode-go/errcode"
)

// PeriphI2C exposes an I2C handle as a periph.io i2c.Bus, so periph device
// drivers (through i2c.Dev) can use it.
type PeriphI2C struct {
	*I2C
}

var _ i2c.Bus = PeriphI2C{}

func (b PeriphI2C) String() string { return Target + "/i2c0" }

// SetSpeed re-initialises the controller at f, rounded down to whole hertz.
func (b PeriphI2C) SetSpeed(f physic.Frequency) error {
	if f <= 0 {
		return errcode.New(errcode.InvalidClock, "i2c.speed", f.String())
	}
	return b.Init(uint32(f / physic.Hertz))
}

// PeriphSPI exposes an SPI handle as a periph.io spi.Port.
type PeriphSPI struct {
	*SPI
}

var _ spi.Port = PeriphSPI{}

func (p PeriphSPI) String() string { return Target + "/spi0" }

// Connect puts the controller in master mode. Only mode 0 with 8-bit words
// is available; the clock divisor is fixed by the backend, so f is only
// range-checked.
func (p PeriphSPI) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	if f < 0 {
		return nil, errcode.New(errcode.InvalidClock, "spi.connect", f.String())
	}
	if mode != spi.Mode0 || bits != 8 {
		return nil, errcode.New(errcode.Unsupported, "spi.connect", "only mode 0, 8 bits")
	}
	if err := p.InitMaster(); err != nil {
		return nil, err
	}
	return periphConn{p.SPI}, nil
}

type periphConn struct {
	s *SPI
}

var _ spi.Conn = periphConn{}

func (c periphConn) String() string       { return Target + "/spi0" }
func (c periphConn) Duplex() conn.Duplex  { return conn.Full }
func (c periphConn) Tx(w, r []byte) error { return c.s.Tx(w, r) }

// TxPackets runs each packet in order. Chip select is not driven by the
// controller, so KeepCS has no effect.
func (c periphConn) TxPackets(pkts []spi.Packet) error {
	for _, p := range pkts {
		if p.BitsPerWord != 0 && p.BitsPerWord != 8 {
			return errcode.New(errcode.Unsupported, "spi.tx", "only 8-bit words")
		}
		if err := c.s.Tx(p.W, p.R); err != nil {
			return err
		}
	}
	return nil
}
