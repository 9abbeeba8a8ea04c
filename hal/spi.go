package hal

import (
	"tinygo.org/x/drivers"

	"halcode-go/errcode"
	"halcode-go/internal/platform"
	"halcode-go/internal/registry"
	"halcode-go/types"
)

// SPI is an owned handle on the target's SPI controller. It satisfies
// drivers.SPI, so TinyGo device drivers can run on it directly.
type SPI struct {
	lease
	hw *platform.SPI
}

var (
	_ types.SPI   = (*SPI)(nil)
	_ drivers.SPI = (*SPI)(nil)
)

func ClaimSPI(owner string) (*SPI, error) {
	l, err := claim(owner, registry.SPI0)
	if err != nil {
		return nil, err
	}
	return &SPI{lease: l, hw: platform.Open().SPI}, nil
}

func (s *SPI) Role() types.SPIRole { return s.hw.Role() }

func (s *SPI) InitMaster() error {
	if err := s.check("spi.init"); err != nil {
		return err
	}
	return warn("spi.init", s.hw.InitMaster())
}

func (s *SPI) InitSlave() error {
	if err := s.check("spi.init"); err != nil {
		return err
	}
	return warn("spi.init", s.hw.InitSlave())
}

func (s *SPI) WriteByte(b byte) error {
	if err := s.check("spi.write"); err != nil {
		return err
	}
	return warn("spi.write", s.hw.WriteByte(b))
}

func (s *SPI) ReadByte() (byte, error) {
	if err := s.check("spi.read"); err != nil {
		return 0, err
	}
	b, err := s.hw.ReadByte()
	return b, warn("spi.read", err)
}

func (s *SPI) Transfer(b byte) (byte, error) {
	if err := s.check("spi.transfer"); err != nil {
		return 0, err
	}
	in, err := s.hw.Transfer(b)
	return in, warn("spi.transfer", err)
}

// Tx exchanges w and r byte by byte. Either may be nil: a nil w sends
// zeros, a nil r discards what comes back. When both are set their
// lengths must match.
func (s *SPI) Tx(w, r []byte) error {
	if err := s.check("spi.tx"); err != nil {
		return err
	}
	n := max(len(w), len(r))
	if w != nil && r != nil && len(w) != len(r) {
		return errcode.New(errcode.Error, "spi.tx", "w and r lengths differ")
	}
	for i := 0; i < n; i++ {
		var out byte
		if w != nil {
			out = w[i]
		}
		in, err := s.hw.Transfer(out)
		if err != nil {
			return warn("spi.tx", err)
		}
		if r != nil {
			r[i] = in
		}
	}
	return nil
}
