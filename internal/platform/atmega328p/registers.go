// Package atmega328p drives the ATmega328P's PORTB, USART0, SPI and TWI
// peripherals through a regs.Space.
//
// Addresses are data-space addresses (I/O address + 0x20), as used by LDS/STS.
package atmega328p

import "halcode-go/regs"

// PORTB
const (
	addrPINB  = 0x23
	addrDDRB  = 0x24
	addrPORTB = 0x25
)

// SPI
const (
	addrSPCR = 0x4C
	addrSPSR = 0x4D
	addrSPDR = 0x4E
)

// TWI
const (
	addrTWBR = 0xB8
	addrTWSR = 0xB9
	addrTWDR = 0xBB
	addrTWCR = 0xBC
)

// USART0
const (
	addrUCSR0A = 0xC0
	addrUCSR0B = 0xC1
	addrUCSR0C = 0xC2
	addrUBRR0L = 0xC4
	addrUBRR0H = 0xC5
	addrUDR0   = 0xC6
)

// PORTB pins used by the SPI block.
const (
	pinSS   = 1 << 2
	pinMOSI = 1 << 3
	pinMISO = 1 << 4
	pinSCK  = 1 << 5
)

var (
	// UCSR0A
	bitUDRE0 = regs.Bit[uint8](5)
	bitRXC0  = regs.Bit[uint8](7)
	// UCSR0B
	bitTXEN0 = regs.Bit[uint8](3)
	bitRXEN0 = regs.Bit[uint8](4)
	// UCSR0C: 8 data bits, no parity, 1 stop bit.
	fieldUCSZ0 = regs.Field[uint8]{Pos: 1, Width: 2}
	fieldUPM0  = regs.Field[uint8]{Pos: 4, Width: 2}
	fieldUSBS0 = regs.Field[uint8]{Pos: 3, Width: 1}

	// SPCR
	fieldSPR = regs.Field[uint8]{Pos: 0, Width: 2}
	bitMSTR  = regs.Bit[uint8](4)
	bitSPE   = regs.Bit[uint8](6)
	// SPSR
	bitSPI2X = regs.Bit[uint8](0)
	bitSPIF  = regs.Bit[uint8](7)

	// TWCR
	bitTWEN  = regs.Bit[uint8](2)
	bitTWSTO = regs.Bit[uint8](4)
	bitTWSTA = regs.Bit[uint8](5)
	bitTWEA  = regs.Bit[uint8](6)
	bitTWINT = regs.Bit[uint8](7)
	// TWSR
	fieldTWPS   = regs.Field[uint8]{Pos: 0, Width: 2}
	fieldStatus = regs.Field[uint8]{Pos: 3, Width: 5}
)

// TWI master status codes, as TWSR & 0xF8.
const (
	twStart     = 0x08
	twRepStart  = 0x10
	twSLAWAck   = 0x18
	twSLAWNack  = 0x20
	twDataWAck  = 0x28
	twDataWNack = 0x30
	twSLARAck   = 0x40
	twSLARNack  = 0x48
	twDataRAck  = 0x50
	twDataRNack = 0x58
)
