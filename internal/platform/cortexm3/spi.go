package cortexm3

import (
	"halcode-go/regs"
	"halcode-go/types"
)

// SPI drives SPI1 in mode 0, 8-bit frames, MSB first.
type SPI struct {
	cr1, sr, dr regs.Reg32

	budget regs.Budget
	role   types.SPIRole
}

var _ types.SPI = (*SPI)(nil)

func NewSPI(sp regs.Space, cfg types.Config) *SPI {
	return &SPI{
		cr1:    regs.At32(sp, spi1Base+offSPICR1),
		sr:     regs.At32(sp, spi1Base+offSPISR),
		dr:     regs.At32(sp, spi1Base+offSPIDR),
		budget: regs.Budget(cfg.PollBudget),
	}
}

// InitMaster selects fPCLK/8 with software slave management, then enables.
func (s *SPI) InitMaster() error {
	s.cr1.Set(0)
	v := bitMSTR | bitSSM | bitSSI
	v = fieldSPIBR.Put(v, spiDivPCLK8)
	v = fieldSPIMode.Put(v, 0)
	s.cr1.Set(v)
	s.cr1.SetBits(bitSPE)
	s.role = types.SPIMaster
	return nil
}

func (s *SPI) InitSlave() error {
	s.cr1.Set(0)
	s.cr1.Set(bitSPE)
	s.role = types.SPISlave
	return nil
}

func (s *SPI) Role() types.SPIRole { return s.role }

func (s *SPI) WriteByte(b byte) error {
	if err := s.sr.WaitSet("spi.write", bitSPITXE, s.budget); err != nil {
		return err
	}
	s.dr.Set(uint32(b))
	return nil
}

func (s *SPI) ReadByte() (byte, error) {
	if err := s.sr.WaitSet("spi.read", bitSPIRXNE, s.budget); err != nil {
		return 0, err
	}
	return byte(s.dr.Get()), nil
}

// Transfer loads DR once TXE is set and returns the byte received on the
// same clocks.
func (s *SPI) Transfer(b byte) (byte, error) {
	if err := s.sr.WaitSet("spi.transfer", bitSPITXE, s.budget); err != nil {
		return 0, err
	}
	s.dr.Set(uint32(b))
	if err := s.sr.WaitSet("spi.transfer", bitSPIRXNE, s.budget); err != nil {
		return 0, err
	}
	return byte(s.dr.Get()), nil
}
