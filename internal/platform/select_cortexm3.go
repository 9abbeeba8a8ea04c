//go:build tinygo && cortexm3 && !atmega328p

package platform

import (
	backend "halcode-go/internal/platform/cortexm3"
	"halcode-go/regs"
	"halcode-go/types"
)

type (
	Chip  = backend.Chip
	GPIO  = backend.GPIO
	USART = backend.USART
	SPI   = backend.SPI
	I2C   = backend.I2C
)

const Target = backend.Name

func newChip(cfg types.Config) *Chip { return backend.New(regs.MMIO{}, cfg) }
