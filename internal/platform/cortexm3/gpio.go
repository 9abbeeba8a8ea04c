package cortexm3

import (
	"halcode-go/errcode"
	"halcode-go/regs"
	"halcode-go/types"
)

// NumPins is the width of GPIOA.
const NumPins = 16

// GPIO drives GPIOA.
type GPIO struct {
	moder, pupdr, idr, odr regs.Reg32
}

var _ types.GPIO = (*GPIO)(nil)

func NewGPIO(sp regs.Space) *GPIO {
	return &GPIO{
		moder: regs.At32(sp, gpioaBase+offMODER),
		pupdr: regs.At32(sp, gpioaBase+offPUPDR),
		idr:   regs.At32(sp, gpioaBase+offIDR),
		odr:   regs.At32(sp, gpioaBase+offODR),
	}
}

func (g *GPIO) NumPins() uint8 { return NumPins }

func checkPin(op string, p types.Pin) error {
	if p >= NumPins {
		return errcode.New(errcode.InvalidPin, op, "GPIOA has 16 pins")
	}
	return nil
}

// ConfigurePin writes the pin's 2-bit MODER field, and its PUPDR field for
// inputs.
func (g *GPIO) ConfigurePin(p types.Pin, mode types.PinMode) error {
	if err := checkPin("gpio.configure", p); err != nil {
		return err
	}
	pos := uint8(p) * 2
	switch mode {
	case types.PinOutput:
		g.moder.ReplaceBits(modeOutput, 0b11, pos)
	case types.PinInput:
		g.moder.ReplaceBits(modeInput, 0b11, pos)
		g.pupdr.ReplaceBits(pullNone, 0b11, pos)
	case types.PinInputPullup:
		g.moder.ReplaceBits(modeInput, 0b11, pos)
		g.pupdr.ReplaceBits(pullUp, 0b11, pos)
	default:
		return errcode.New(errcode.InvalidMode, "gpio.configure", mode.String())
	}
	return nil
}

func (g *GPIO) WritePin(p types.Pin, v types.PinValue) error {
	if err := checkPin("gpio.write", p); err != nil {
		return err
	}
	if v == types.High {
		g.odr.SetBits(1 << p)
	} else {
		g.odr.ClearBits(1 << p)
	}
	return nil
}

func (g *GPIO) ReadPin(p types.Pin) (types.PinValue, error) {
	if err := checkPin("gpio.read", p); err != nil {
		return types.Low, err
	}
	return types.Level(g.idr.HasBits(1 << p)), nil
}

func (g *GPIO) TogglePin(p types.Pin) error {
	if err := checkPin("gpio.toggle", p); err != nil {
		return err
	}
	g.odr.Set(g.odr.Get() ^ 1<<p)
	return nil
}
