package atmega328p

import (
	"halcode-go/errcode"
	"halcode-go/internal/i2cseq"
	"halcode-go/regs"
	"halcode-go/types"
	"halcode-go/x/conv"
	"halcode-go/x/mathx"
)

// minTWBR is the smallest bit-rate register value the datasheet allows in
// master mode.
const minTWBR = 10

var twiPrescalers = [...]uint32{1, 4, 16, 64}

// I2C drives the TWI block as a bus master.
type I2C struct {
	twbr, twsr, twdr, twcr regs.Reg8

	refHz  uint32
	budget regs.Budget
}

var (
	_ types.I2C   = (*I2C)(nil)
	_ i2cseq.Phy = (*I2C)(nil)
)

func NewI2C(sp regs.Space, cfg types.Config) *I2C {
	cfg = cfg.WithDefaults()
	return &I2C{
		twbr:   regs.At8(sp, addrTWBR),
		twsr:   regs.At8(sp, addrTWSR),
		twdr:   regs.At8(sp, addrTWDR),
		twcr:   regs.At8(sp, addrTWCR),
		refHz:  cfg.RefClockHz,
		budget: regs.Budget(cfg.PollBudget),
	}
}

// BitRate returns TWBR and the TWPS prescaler code for SCL frequency hz:
//
//	TWBR = (refHz/hz - 16) / (2 * prescaler)
//
// using the smallest prescaler whose TWBR fits 8 bits.
func BitRate(refHz, hz uint32) (twbr uint8, twps uint8, err error) {
	if hz == 0 || refHz/hz < 16 {
		return 0, 0, errcode.New(errcode.InvalidClock, "i2c.init", "SCL frequency too high for clock")
	}
	n := refHz/hz - 16
	for ps, pre := range twiPrescalers {
		v := n / (2 * pre)
		if !mathx.FitsBits(v, 8) {
			continue
		}
		if v < minTWBR {
			return 0, 0, errcode.New(errcode.InvalidClock, "i2c.init", "TWBR below 10")
		}
		return uint8(v), uint8(ps), nil
	}
	return 0, 0, errcode.New(errcode.InvalidClock, "i2c.init", "SCL frequency too low for clock")
}

// Init sets the bit rate and enables the TWI.
func (d *I2C) Init(hz uint32) error {
	twbr, twps, err := BitRate(d.refHz, hz)
	if err != nil {
		return err
	}
	d.twsr.Set(fieldTWPS.Put(0, twps))
	d.twbr.Set(twbr)
	d.twcr.Set(bitTWEN)
	return nil
}

func (d *I2C) Write(addr uint8, data []byte) error { return i2cseq.Write(d, addr, data) }

func (d *I2C) Read(addr uint8, buf []byte) (byte, error) { return i2cseq.Read(d, addr, buf) }

func (d *I2C) Tx(addr uint16, w, r []byte) error { return i2cseq.Tx(d, addr, w, r) }

// ---- bus phases ----

func (d *I2C) status() uint8 { return d.twsr.Get() & fieldStatus.Mask() }

// run strobes TWINT with extra control bits and waits for the action to
// finish.
func (d *I2C) run(op string, ctl uint8) (uint8, error) {
	d.twcr.Set(bitTWINT | bitTWEN | ctl)
	if err := d.twcr.WaitSet(op, bitTWINT, d.budget); err != nil {
		return 0, err
	}
	return d.status(), nil
}

func unexpected(op string, st uint8) error {
	return errcode.New(errcode.Error, op, "status "+conv.HexString(uint32(st), 2))
}

func (d *I2C) Start() error {
	st, err := d.run("i2c.start", bitTWSTA)
	if err != nil {
		return err
	}
	if st != twStart && st != twRepStart {
		return unexpected("i2c.start", st)
	}
	return nil
}

func (d *I2C) Address(addr uint8, read bool) error {
	sla := addr << 1
	if read {
		sla |= 1
	}
	d.twdr.Set(sla)
	st, err := d.run("i2c.address", 0)
	if err != nil {
		return err
	}
	switch st {
	case twSLAWAck, twSLARAck:
		return nil
	case twSLAWNack, twSLARNack:
		return errcode.New(errcode.Nack, "i2c.address", "no device at "+conv.HexString(uint32(addr), 2))
	default:
		return unexpected("i2c.address", st)
	}
}

func (d *I2C) Send(b byte) error {
	d.twdr.Set(b)
	st, err := d.run("i2c.write", 0)
	if err != nil {
		return err
	}
	switch st {
	case twDataWAck:
		return nil
	case twDataWNack:
		return errcode.New(errcode.Nack, "i2c.write", "data byte refused")
	default:
		return unexpected("i2c.write", st)
	}
}

func (d *I2C) Recv(ack bool) (byte, error) {
	var ctl uint8
	want := uint8(twDataRNack)
	if ack {
		ctl, want = bitTWEA, twDataRAck
	}
	st, err := d.run("i2c.read", ctl)
	if err != nil {
		return 0, err
	}
	if st != want {
		return 0, unexpected("i2c.read", st)
	}
	return d.twdr.Get(), nil
}

// Stop requests a stop condition. TWSTO clears itself once it is on the bus.
func (d *I2C) Stop() {
	d.twcr.Set(bitTWINT | bitTWSTO | bitTWEN)
}
