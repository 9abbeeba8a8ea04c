package atmega328p

import (
	"halcode-go/regs"
	"halcode-go/types"
)

// SPI drives the SPI block in mode 0, MSB first.
type SPI struct {
	spcr, spsr, spdr regs.Reg8
	ddr              regs.Reg8

	budget regs.Budget
	role   types.SPIRole
}

var _ types.SPI = (*SPI)(nil)

func NewSPI(sp regs.Space, cfg types.Config) *SPI {
	return &SPI{
		spcr:   regs.At8(sp, addrSPCR),
		spsr:   regs.At8(sp, addrSPSR),
		spdr:   regs.At8(sp, addrSPDR),
		ddr:    regs.At8(sp, addrDDRB),
		budget: regs.Budget(cfg.PollBudget),
	}
}

// InitMaster drives MOSI, SCK and SS, and clocks at fosc/16. SPI2X is
// cleared so the SPR divisor is not doubled.
func (s *SPI) InitMaster() error {
	s.ddr.SetBits(pinMOSI | pinSCK | pinSS)
	s.ddr.ClearBits(pinMISO)
	s.spcr.Set(bitSPE | bitMSTR | fieldSPR.Put(0, 0b01))
	s.spsr.ClearBits(bitSPI2X)
	s.role = types.SPIMaster
	return nil
}

// InitSlave drives MISO only.
func (s *SPI) InitSlave() error {
	s.ddr.ClearBits(pinMOSI | pinSCK | pinSS)
	s.ddr.SetBits(pinMISO)
	s.spcr.Set(bitSPE)
	s.spsr.ClearBits(bitSPI2X)
	s.role = types.SPISlave
	return nil
}

func (s *SPI) Role() types.SPIRole { return s.role }

// WriteByte loads SPDR and waits for the shift to complete.
func (s *SPI) WriteByte(b byte) error {
	s.spdr.Set(b)
	return s.spsr.WaitSet("spi.write", bitSPIF, s.budget)
}

// ReadByte waits for a completed shift and returns the received byte.
func (s *SPI) ReadByte() (byte, error) {
	if err := s.spsr.WaitSet("spi.read", bitSPIF, s.budget); err != nil {
		return 0, err
	}
	return s.spdr.Get(), nil
}

// Transfer shifts b out and returns the byte shifted in on the same clocks.
func (s *SPI) Transfer(b byte) (byte, error) {
	s.spdr.Set(b)
	if err := s.spsr.WaitSet("spi.transfer", bitSPIF, s.budget); err != nil {
		return 0, err
	}
	return s.spdr.Get(), nil
}
