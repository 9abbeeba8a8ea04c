// Package cortexm3 drives GPIOA, USART2, SPI1 and I2C1 of an STM32-class
// Cortex-M3 part through a regs.Space. All registers are 32 bits wide.
package cortexm3

import "halcode-go/regs"

const (
	gpioaBase = 0x4800_0000
	offMODER  = 0x00
	offPUPDR  = 0x0C
	offIDR    = 0x10
	offODR    = 0x14
)

const (
	usart2Base = 0x4000_4400
	offSR      = 0x00
	offDR      = 0x04
	offBRR     = 0x08
	offCR1     = 0x0C
)

const (
	spi1Base   = 0x4001_3000
	offSPICR1  = 0x00
	offSPISR   = 0x08
	offSPIDR   = 0x0C
	i2c1Base   = 0x4000_5400
	offI2CCR1  = 0x00
	offI2CCR2  = 0x04
	offI2CDR   = 0x10
	offI2CSR1  = 0x14
	offI2CSR2  = 0x18
	offI2CCCR  = 0x1C
	offI2CRISE = 0x20
)

// GPIO mode and pull encodings (2 bits per pin).
const (
	modeInput  = 0b00
	modeOutput = 0b01
	pullNone   = 0b00
	pullUp     = 0b01
)

var (
	// USART SR / CR1
	bitRXNE = regs.Bit[uint32](5)
	bitTXE  = regs.Bit[uint32](7)
	bitRE   = regs.Bit[uint32](2)
	bitTE   = regs.Bit[uint32](3)
	bitUE   = regs.Bit[uint32](13)
	// BRR: 12-bit mantissa, 4-bit fraction.
	fieldBRR = regs.Field[uint32]{Pos: 0, Width: 16}

	// SPI CR1 / SR
	fieldSPIMode = regs.Field[uint32]{Pos: 0, Width: 2} // CPHA, CPOL
	bitMSTR      = regs.Bit[uint32](2)
	fieldSPIBR   = regs.Field[uint32]{Pos: 3, Width: 3}
	bitSPE       = regs.Bit[uint32](6)
	bitSSI       = regs.Bit[uint32](8)
	bitSSM       = regs.Bit[uint32](9)
	bitSPIRXNE   = regs.Bit[uint32](0)
	bitSPITXE    = regs.Bit[uint32](1)
	spiDivPCLK8  = uint32(0b011)

	// I2C CR1
	bitPE    = regs.Bit[uint32](0)
	bitSTART = regs.Bit[uint32](8)
	bitSTOP  = regs.Bit[uint32](9)
	bitACK   = regs.Bit[uint32](10)
	// I2C CR2
	fieldFREQ = regs.Field[uint32]{Pos: 0, Width: 6}
	// I2C SR1
	bitSB      = regs.Bit[uint32](0)
	bitADDR    = regs.Bit[uint32](1)
	bitBTF     = regs.Bit[uint32](2)
	bitI2CRXNE = regs.Bit[uint32](6)
	bitI2CTXE  = regs.Bit[uint32](7)
	bitAF      = regs.Bit[uint32](10)
	// I2C CCR
	fieldCCR = regs.Field[uint32]{Pos: 0, Width: 12}
	bitFS    = regs.Bit[uint32](15)
	// I2C TRISE
	fieldTRISE = regs.Field[uint32]{Pos: 0, Width: 6}
)
