package hal

import (
	"tinygo.org/x/drivers"

	"halcode-go/internal/platform"
	"halcode-go/internal/registry"
	"halcode-go/types"
)

// I2C is an owned handle on the target's I2C controller. It satisfies
// drivers.I2C.
type I2C struct {
	lease
	hw *platform.I2C
}

var (
	_ types.I2C   = (*I2C)(nil)
	_ drivers.I2C = (*I2C)(nil)
)

func ClaimI2C(owner string) (*I2C, error) {
	l, err := claim(owner, registry.I2C0)
	if err != nil {
		return nil, err
	}
	return &I2C{lease: l, hw: platform.Open().I2C}, nil
}

func (d *I2C) Init(hz uint32) error {
	if err := d.check("i2c.init"); err != nil {
		return err
	}
	return warn("i2c.init", d.hw.Init(hz))
}

func (d *I2C) Write(addr uint8, data []byte) error {
	if err := d.check("i2c.write"); err != nil {
		return err
	}
	return warn("i2c.write", d.hw.Write(addr, data))
}

// Read fills buf and returns its last byte, or 0 when buf is empty.
func (d *I2C) Read(addr uint8, buf []byte) (byte, error) {
	if err := d.check("i2c.read"); err != nil {
		return 0, err
	}
	last, err := d.hw.Read(addr, buf)
	return last, warn("i2c.read", err)
}

// Tx writes w and then reads r in one transaction, with a repeated start
// between the two.
func (d *I2C) Tx(addr uint16, w, r []byte) error {
	if err := d.check("i2c.tx"); err != nil {
		return err
	}
	return warn("i2c.tx", d.hw.Tx(addr, w, r))
}
