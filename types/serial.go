package types

// ------------------------
// Serial
// ------------------------

// USART is a single-buffered asynchronous serial port.
//
// WriteByte blocks until the transmit register is empty; ReadByte blocks
// until a byte has been received. There is no software queue.
type USART interface {
	Init(baud uint32) error
	WriteByte(b byte) error
	ReadByte() (byte, error)
}
