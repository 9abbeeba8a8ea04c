package atmega328p

import (
	"halcode-go/errcode"
	"halcode-go/regs"
	"halcode-go/types"
)

// NumPins is the width of PORTB.
const NumPins = 8

// GPIO drives PORTB.
type GPIO struct {
	ddr, port, pin regs.Reg8
}

var _ types.GPIO = (*GPIO)(nil)

func NewGPIO(sp regs.Space) *GPIO {
	return &GPIO{
		ddr:  regs.At8(sp, addrDDRB),
		port: regs.At8(sp, addrPORTB),
		pin:  regs.At8(sp, addrPINB),
	}
}

func (g *GPIO) NumPins() uint8 { return NumPins }

func bitOf(op string, p types.Pin) (uint8, error) {
	if p >= NumPins {
		return 0, errcode.New(errcode.InvalidPin, op, "PORTB has 8 pins")
	}
	return 1 << p, nil
}

// ConfigurePin sets the direction bit. Input also clears the PORT bit so the
// pull-up is off; InputPullup sets it.
func (g *GPIO) ConfigurePin(p types.Pin, mode types.PinMode) error {
	bit, err := bitOf("gpio.configure", p)
	if err != nil {
		return err
	}
	switch mode {
	case types.PinOutput:
		g.ddr.SetBits(bit)
	case types.PinInput:
		g.ddr.ClearBits(bit)
		g.port.ClearBits(bit)
	case types.PinInputPullup:
		g.ddr.ClearBits(bit)
		g.port.SetBits(bit)
	default:
		return errcode.New(errcode.InvalidMode, "gpio.configure", mode.String())
	}
	return nil
}

func (g *GPIO) WritePin(p types.Pin, v types.PinValue) error {
	bit, err := bitOf("gpio.write", p)
	if err != nil {
		return err
	}
	if v == types.High {
		g.port.SetBits(bit)
	} else {
		g.port.ClearBits(bit)
	}
	return nil
}

func (g *GPIO) ReadPin(p types.Pin) (types.PinValue, error) {
	bit, err := bitOf("gpio.read", p)
	if err != nil {
		return types.Low, err
	}
	return types.Level(g.pin.HasBits(bit)), nil
}

// TogglePin flips the output latch with a single write to PINB.
func (g *GPIO) TogglePin(p types.Pin) error {
	bit, err := bitOf("gpio.toggle", p)
	if err != nil {
		return err
	}
	g.pin.Set(bit)
	return nil
}
