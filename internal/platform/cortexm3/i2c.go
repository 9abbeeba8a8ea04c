package cortexm3

import (
	"halcode-go/errcode"
	"halcode-go/internal/i2cseq"
	"halcode-go/regs"
	"halcode-go/types"
	"halcode-go/x/conv"
	"halcode-go/x/mathx"
)

const (
	standardModeMaxHz = 100_000
	fastModeMaxHz     = 400_000

	minFreqMHz = 2
	maxFreqMHz = 36
)

// I2C drives I2C1 as a bus master.
type I2C struct {
	cr1, cr2, dr, sr1, sr2, ccr, trise regs.Reg32

	refHz  uint32
	budget regs.Budget
}

var (
	_ types.I2C   = (*I2C)(nil)
	_ i2cseq.Phy = (*I2C)(nil)
)

func NewI2C(sp regs.Space, cfg types.Config) *I2C {
	cfg = cfg.WithDefaults()
	at := func(off uintptr) regs.Reg32 { return regs.At32(sp, i2c1Base+off) }
	return &I2C{
		cr1:    at(offI2CCR1),
		cr2:    at(offI2CCR2),
		dr:     at(offI2CDR),
		sr1:    at(offI2CSR1),
		sr2:    at(offI2CSR2),
		ccr:    at(offI2CCCR),
		trise:  at(offI2CRISE),
		refHz:  cfg.RefClockHz,
		budget: regs.Budget(cfg.PollBudget),
	}
}

// Timing holds the register values for one SCL frequency.
type Timing struct {
	Freq  uint32 // CR2.FREQ, peripheral clock in MHz
	CCR   uint32 // including the F/S bit
	TRISE uint32
}

// ClockTiming derives CR2.FREQ, CCR and TRISE for SCL frequency hz.
// Standard mode (up to 100 kHz) uses CCR = ref/(2*hz); fast mode (up to
// 400 kHz) uses CCR = ref/(3*hz) with duty 2:1.
func ClockTiming(refHz, hz uint32) (Timing, error) {
	freq := refHz / 1_000_000
	if !mathx.Between(freq, minFreqMHz, maxFreqMHz) {
		return Timing{}, errcode.New(errcode.InvalidClock, "i2c.init", "peripheral clock outside 2..36 MHz")
	}
	if hz == 0 || hz > fastModeMaxHz {
		return Timing{}, errcode.New(errcode.InvalidClock, "i2c.init", "SCL frequency above 400 kHz")
	}
	var t Timing
	t.Freq = freq
	if hz <= standardModeMaxHz {
		ccr := refHz / (2 * hz)
		if ccr < 4 || !fieldCCR.Fits(ccr) {
			return Timing{}, errcode.New(errcode.InvalidClock, "i2c.init", "CCR out of range")
		}
		t.CCR = ccr
		t.TRISE = freq + 1
		return t, nil
	}
	ccr := refHz / (3 * hz)
	if ccr < 1 || !fieldCCR.Fits(ccr) {
		return Timing{}, errcode.New(errcode.InvalidClock, "i2c.init", "CCR out of range")
	}
	t.CCR = ccr | bitFS
	t.TRISE = freq*300/1000 + 1
	return t, nil
}

// Init disables the peripheral, programs timing and re-enables it.
func (d *I2C) Init(hz uint32) error {
	t, err := ClockTiming(d.refHz, hz)
	if err != nil {
		return err
	}
	d.cr1.ClearBits(bitPE)
	d.cr2.Set(fieldFREQ.Put(d.cr2.Get(), t.Freq))
	d.ccr.Set(t.CCR)
	d.trise.Set(fieldTRISE.Put(0, t.TRISE))
	d.cr1.SetBits(bitPE)
	return nil
}

func (d *I2C) Write(addr uint8, data []byte) error { return i2cseq.Write(d, addr, data) }

func (d *I2C) Read(addr uint8, buf []byte) (byte, error) { return i2cseq.Read(d, addr, buf) }

func (d *I2C) Tx(addr uint16, w, r []byte) error { return i2cseq.Tx(d, addr, w, r) }

// ---- bus phases ----

// waitOrNack polls SR1 until any bit of mask is set. An acknowledge failure
// is cleared and reported as a NACK.
func (d *I2C) waitOrNack(op string, mask uint32, msg string) error {
	var sr1 uint32
	err := d.budget.Until(op, func() bool {
		sr1 = d.sr1.Get()
		return sr1&(mask|bitAF) != 0
	})
	if err != nil {
		return err
	}
	if sr1&bitAF != 0 {
		d.sr1.ClearBits(bitAF)
		return errcode.New(errcode.Nack, op, msg)
	}
	return nil
}

func (d *I2C) Start() error {
	d.cr1.SetBits(bitSTART)
	return d.sr1.WaitSet("i2c.start", bitSB, d.budget)
}

var _ i2cseq.ReadSizer = (*I2C)(nil)

// PrepareRead sets CR1.ACK for the coming read. A single-byte read must
// have ACK cleared before ADDR is cleared (EV6), so it is done here rather
// than in Recv.
func (d *I2C) PrepareRead(n int) {
	if n == 1 {
		d.cr1.ClearBits(bitACK)
	} else {
		d.cr1.SetBits(bitACK)
	}
}

// Address sends the address byte and clears ADDR by reading SR1 then SR2.
func (d *I2C) Address(addr uint8, read bool) error {
	sla := uint32(addr) << 1
	if read {
		sla |= 1
	}
	d.dr.Set(sla)
	if err := d.waitOrNack("i2c.address", bitADDR, "no device at "+conv.HexString(uint32(addr), 2)); err != nil {
		return err
	}
	_ = d.sr2.Get()
	return nil
}

func (d *I2C) Send(b byte) error {
	d.dr.Set(uint32(b))
	return d.waitOrNack("i2c.write", bitI2CTXE|bitBTF, "data byte refused")
}

// Recv programs CR1.ACK for this byte before waiting for it.
func (d *I2C) Recv(ack bool) (byte, error) {
	if ack {
		d.cr1.SetBits(bitACK)
	} else {
		d.cr1.ClearBits(bitACK)
	}
	if err := d.sr1.WaitSet("i2c.read", bitI2CRXNE, d.budget); err != nil {
		return 0, err
	}
	return byte(d.dr.Get()), nil
}

func (d *I2C) Stop() {
	d.cr1.SetBits(bitSTOP)
}
