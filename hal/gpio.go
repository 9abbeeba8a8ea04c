package hal

import (
	"halcode-go/internal/platform"
	"halcode-go/internal/registry"
	"halcode-go/types"
)

// GPIO is an owned handle on the target's GPIO port.
type GPIO struct {
	lease
	hw *platform.GPIO
}

var _ types.GPIO = (*GPIO)(nil)

func ClaimGPIO(owner string) (*GPIO, error) {
	l, err := claim(owner, registry.GPIO)
	if err != nil {
		return nil, err
	}
	return &GPIO{lease: l, hw: platform.Open().GPIO}, nil
}

func (g *GPIO) NumPins() uint8 { return g.hw.NumPins() }

func (g *GPIO) ConfigurePin(p types.Pin, mode types.PinMode) error {
	if err := g.check("gpio.configure"); err != nil {
		return err
	}
	return warn("gpio.configure", g.hw.ConfigurePin(p, mode))
}

func (g *GPIO) WritePin(p types.Pin, v types.PinValue) error {
	if err := g.check("gpio.write"); err != nil {
		return err
	}
	return warn("gpio.write", g.hw.WritePin(p, v))
}

func (g *GPIO) ReadPin(p types.Pin) (types.PinValue, error) {
	if err := g.check("gpio.read"); err != nil {
		return types.Low, err
	}
	v, err := g.hw.ReadPin(p)
	return v, warn("gpio.read", err)
}

// TogglePin inverts an output pin's latch.
func (g *GPIO) TogglePin(p types.Pin) error {
	if err := g.check("gpio.toggle"); err != nil {
		return err
	}
	return warn("gpio.toggle", g.hw.TogglePin(p))
}
