package atmega328p

import (
	"halcode-go/errcode"
	"halcode-go/regs"
	"halcode-go/types"
	"halcode-go/x/mathx"
)

// USART drives USART0 in asynchronous normal-speed mode.
type USART struct {
	ucsra, ucsrb, ucsrc regs.Reg8
	ubrrh, ubrrl        regs.Reg8
	udr                 regs.Reg8

	refHz  uint32
	budget regs.Budget
}

var _ types.USART = (*USART)(nil)

func NewUSART(sp regs.Space, cfg types.Config) *USART {
	cfg = cfg.WithDefaults()
	return &USART{
		ucsra:  regs.At8(sp, addrUCSR0A),
		ucsrb:  regs.At8(sp, addrUCSR0B),
		ucsrc:  regs.At8(sp, addrUCSR0C),
		ubrrh:  regs.At8(sp, addrUBRR0H),
		ubrrl:  regs.At8(sp, addrUBRR0L),
		udr:    regs.At8(sp, addrUDR0),
		refHz:  cfg.RefClockHz,
		budget: regs.Budget(cfg.PollBudget),
	}
}

// UBRR returns refHz/(16*baud) - 1, the 12-bit normal-speed divisor.
func UBRR(refHz, baud uint32) (uint16, error) {
	if baud == 0 {
		return 0, errcode.New(errcode.InvalidBaud, "usart.init", "baud must be non-zero")
	}
	q := uint64(refHz) / (16 * uint64(baud))
	if q == 0 {
		return 0, errcode.New(errcode.InvalidBaud, "usart.init", "baud too high for clock")
	}
	if !mathx.FitsBits(q-1, 12) {
		return 0, errcode.New(errcode.InvalidBaud, "usart.init", "baud too low for clock")
	}
	return uint16(q - 1), nil
}

// Init programs the divisor, selects 8N1 and enables both directions.
func (u *USART) Init(baud uint32) error {
	ubrr, err := UBRR(u.refHz, baud)
	if err != nil {
		return err
	}
	u.ubrrh.Set(uint8(ubrr >> 8))
	u.ubrrl.Set(uint8(ubrr))
	frame := fieldUCSZ0.Put(0, 0b11)
	frame = fieldUPM0.Put(frame, 0)
	frame = fieldUSBS0.Put(frame, 0)
	u.ucsrc.Set(frame)
	u.ucsrb.Set(bitRXEN0 | bitTXEN0)
	return nil
}

func (u *USART) WriteByte(b byte) error {
	if err := u.ucsra.WaitSet("usart.write", bitUDRE0, u.budget); err != nil {
		return err
	}
	u.udr.Set(b)
	return nil
}

func (u *USART) ReadByte() (byte, error) {
	if err := u.ucsra.WaitSet("usart.read", bitRXC0, u.budget); err != nil {
		return 0, err
	}
	return u.udr.Get(), nil
}
