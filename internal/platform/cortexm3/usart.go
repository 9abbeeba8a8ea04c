package cortexm3

import (
	"halcode-go/errcode"
	"halcode-go/regs"
	"halcode-go/types"
	"halcode-go/x/mathx"
)

// USART drives USART2, 8N1, oversampling by 16.
type USART struct {
	sr, dr, brr, cr1 regs.Reg32

	refHz  uint32
	budget regs.Budget
}

var _ types.USART = (*USART)(nil)

func NewUSART(sp regs.Space, cfg types.Config) *USART {
	cfg = cfg.WithDefaults()
	return &USART{
		sr:     regs.At32(sp, usart2Base+offSR),
		dr:     regs.At32(sp, usart2Base+offDR),
		brr:    regs.At32(sp, usart2Base+offBRR),
		cr1:    regs.At32(sp, usart2Base+offCR1),
		refHz:  cfg.RefClockHz,
		budget: regs.Budget(cfg.PollBudget),
	}
}

// BRR returns refHz/baud. The mantissa (bits 4..15) must be at least 1.
func BRR(refHz, baud uint32) (uint32, error) {
	if baud == 0 {
		return 0, errcode.New(errcode.InvalidBaud, "usart.init", "baud must be non-zero")
	}
	v := refHz / baud
	if !mathx.Between(v, 16, fieldBRR.Mask()) {
		return 0, errcode.New(errcode.InvalidBaud, "usart.init", "divisor out of range")
	}
	return v, nil
}

// Init programs BRR, then enables the USART with transmitter and receiver.
func (u *USART) Init(baud uint32) error {
	brr, err := BRR(u.refHz, baud)
	if err != nil {
		return err
	}
	u.cr1.ClearBits(bitUE)
	u.brr.Set(brr)
	u.cr1.Set(bitUE | bitTE | bitRE)
	return nil
}

func (u *USART) WriteByte(b byte) error {
	if err := u.sr.WaitSet("usart.write", bitTXE, u.budget); err != nil {
		return err
	}
	u.dr.Set(uint32(b))
	return nil
}

func (u *USART) ReadByte() (byte, error) {
	if err := u.sr.WaitSet("usart.read", bitRXNE, u.budget); err != nil {
		return 0, err
	}
	return byte(u.dr.Get()), nil
}
