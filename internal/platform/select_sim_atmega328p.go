//go:build !cortexm3 && !(tinygo && atmega328p)

package platform

import (
	backend "halcode-go/internal/platform/atmega328p"
	"halcode-go/internal/sim"
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

var simChip = sim.NewAVR()

func newChip(cfg types.Config) *Chip { return backend.New(simChip, cfg) }

// Sim is the simulated chip behind the register space.
func Sim() sim.Chip { return simChip }
