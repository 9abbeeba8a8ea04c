package types

// ------------------------
// I2C
// ------------------------

// MaxI2CAddress is the largest 7-bit target address.
const MaxI2CAddress = 0x7F

// I2C is a two-wire bus controller.
//
// Write and Read each run one complete transaction (start, address, data,
// stop). Read NACKs the final byte and returns it as a convenience; buf is
// the authoritative result and an empty buf yields 0. Tx runs a write then,
// after a repeated start, a read, as one transaction.
type I2C interface {
	Init(clockHz uint32) error
	Write(addr uint8, data []byte) error
	Read(addr uint8, buf []byte) (byte, error)
	Tx(addr uint16, w, r []byte) error
}
