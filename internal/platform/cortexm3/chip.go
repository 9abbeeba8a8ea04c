package cortexm3

import (
	"halcode-go/regs"
	"halcode-go/types"
)

// Name is the target name this backend serves.
const Name = "cortexm3"

// Chip groups the four peripheral drivers bound to one register space.
type Chip struct {
	GPIO  *GPIO
	USART *USART
	SPI   *SPI
	I2C   *I2C
}

// New binds every peripheral to sp.
func New(sp regs.Space, cfg types.Config) *Chip {
	cfg = cfg.WithDefaults()
	return &Chip{
		GPIO:  NewGPIO(sp),
		USART: NewUSART(sp, cfg),
		SPI:   NewSPI(sp, cfg),
		I2C:   NewI2C(sp, cfg),
	}
}

func (c *Chip) Peripherals() types.Peripherals {
	return types.Peripherals{GPIO: c.GPIO, USART: c.USART, SPI: c.SPI, I2C: c.I2C}
}
