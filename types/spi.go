package types

// ------------------------
// SPI
// ------------------------

type SPIRole uint8

const (
	SPIOff SPIRole = iota
	SPIMaster
	SPISlave
)

func (r SPIRole) String() string {
	switch r {
	case SPIMaster:
		return "master"
	case SPISlave:
		return "slave"
	default:
		return "off"
	}
}

// SPI exchanges single bytes on a synchronous serial bus.
//
// InitMaster and InitSlave rebuild the control register from scratch, so
// exactly one role is active at a time.
type SPI interface {
	InitMaster() error
	InitSlave() error
	WriteByte(b byte) error
	ReadByte() (byte, error)
	Transfer(b byte) (byte, error)
	Role() SPIRole
}

// ByteExchanger is the half of SPI that DefaultTransfer needs.
type ByteExchanger interface {
	WriteByte(b byte) error
	ReadByte() (byte, error)
}

// DefaultTransfer is the portable Transfer: a write followed by a read.
// It emulates full duplex; backends that can overlap the two phases around
// the same clock cycle override it.
func DefaultTransfer(s ByteExchanger, b byte) (byte, error) {
	if err := s.WriteByte(b); err != nil {
		return 0, err
	}
	return s.ReadByte()
}
