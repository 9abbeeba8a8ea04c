package sim

// Cortex-M3 (STM32-style) peripheral addresses modelled by STM32.
const (
	gpioaBase  = 0x4800_0000
	gpioaMODER = gpioaBase + 0x00
	gpioaPUPDR = gpioaBase + 0x0C
	gpioaIDR   = gpioaBase + 0x10
	gpioaODR   = gpioaBase + 0x14

	usart2Base = 0x4000_4400
	usart2SR   = usart2Base + 0x00
	usart2DR   = usart2Base + 0x04
	usart2BRR  = usart2Base + 0x08
	usart2CR1  = usart2Base + 0x0C

	spi1Base = 0x4001_3000
	spi1CR1  = spi1Base + 0x00
	spi1SR   = spi1Base + 0x08
	spi1DR   = spi1Base + 0x0C

	i2c1Base  = 0x4000_5400
	i2c1CR1   = i2c1Base + 0x00
	i2c1CR2   = i2c1Base + 0x04
	i2c1DR    = i2c1Base + 0x10
	i2c1SR1   = i2c1Base + 0x14
	i2c1SR2   = i2c1Base + 0x18
	i2c1CCR   = i2c1Base + 0x1C
	i2c1TRISE = i2c1Base + 0x20
)

const (
	usartTXE  = 1 << 7
	usartTC   = 1 << 6
	usartRXNE = 1 << 5
	usartUE   = 1 << 13
	usartTE   = 1 << 3
	usartRE   = 1 << 2

	spiRXNE = 1 << 0
	spiTXE  = 1 << 1
	spiSPE  = 1 << 6

	i2cPE    = 1 << 0
	i2cSTART = 1 << 8
	i2cSTOP  = 1 << 9
	i2cACK   = 1 << 10

	i2cSB   = 1 << 0
	i2cADDR = 1 << 1
	i2cBTF  = 1 << 2
	i2cRXNE = 1 << 6
	i2cTXE  = 1 << 7
	i2cAF   = 1 << 10

	i2cMSL  = 1 << 0
	i2cBUSY = 1 << 1
	i2cTRA  = 1 << 2
)

type i2cPhase uint8

const (
	i2cIdle i2cPhase = iota
	i2cStarted
	i2cAddrWrite
	i2cAddrRead
	i2cTransmit
	i2cReceive
	i2cRejected
)

// STM32 models GPIOA, USART2, SPI1 and I2C1 of a Cortex-M3 part.
type STM32 struct {
	*Memory
	world

	spiRx   byte
	i2c     i2cPhase
	i2cRx   byte
	sr1Seen bool
}

var _ Chip = (*STM32)(nil)

func NewSTM32() *STM32 {
	m := NewMemory()
	s := &STM32{Memory: m, world: newWorld(m)}

	m.Hook(gpioaIDR, Hook{Read: s.readIDR})
	m.Hook(usart2SR, Hook{Read: s.readUSARTSR})
	m.Hook(usart2DR, Hook{Read: s.readUSARTDR, Write: s.writeUSARTDR})
	m.Hook(spi1SR, Hook{Read: s.readSPISR})
	m.Hook(spi1DR, Hook{Read: s.readSPIDR, Write: s.writeSPIDR})
	m.Hook(i2c1CR1, Hook{Write: s.writeI2CCR1})
	m.Hook(i2c1DR, Hook{Read: s.readI2CDR, Write: s.writeI2CDR})
	m.Hook(i2c1SR1, Hook{Read: s.readI2CSR1, Write: s.writeI2CSR1})
	m.Hook(i2c1SR2, Hook{Read: s.readI2CSR2})

	m.Poke(usart2SR, usartTXE|usartTC)
	m.Poke(spi1SR, spiTXE)
	return s
}

func (s *STM32) Name() string { return "cortexm3" }

func (s *STM32) readIDR(uint32) uint32 {
	moder, pupdr, odr := s.get(gpioaMODER), s.get(gpioaPUPDR), s.get(gpioaODR)
	var v uint32
	for pin := uint8(0); pin < 16; pin++ {
		bit := uint32(1) << pin
		if moder>>(2*pin)&0b11 == 0b01 {
			v |= odr & bit
			continue
		}
		if s.external(pin, pupdr>>(2*pin)&0b11 == 0b01) {
			v |= bit
		}
	}
	return v
}

func (s *STM32) readUSARTSR(stored uint32) uint32 {
	v := stored &^ (usartTXE | usartRXNE)
	if !s.txStall {
		v |= usartTXE
	}
	cr1 := s.get(usart2CR1)
	if cr1&usartUE != 0 && cr1&usartRE != 0 && len(s.rx) > 0 {
		v |= usartRXNE
	}
	return v
}

func (s *STM32) readUSARTDR(stored uint32) uint32 {
	cr1 := s.get(usart2CR1)
	if cr1&usartUE == 0 || cr1&usartRE == 0 {
		return stored
	}
	if b, ok := s.popRX(); ok {
		return uint32(b)
	}
	return stored
}

func (s *STM32) writeUSARTDR(old, v uint32) uint32 {
	cr1 := s.get(usart2CR1)
	if cr1&usartUE != 0 && cr1&usartTE != 0 {
		s.tx = append(s.tx, byte(v))
	}
	return old
}

func (s *STM32) readSPISR(stored uint32) uint32 {
	if s.spiStall {
		return stored &^ spiTXE
	}
	return stored
}

func (s *STM32) readSPIDR(uint32) uint32 {
	s.put(spi1SR, s.get(spi1SR)&^spiRXNE)
	return uint32(s.spiRx)
}

func (s *STM32) writeSPIDR(_, v uint32) uint32 {
	if s.get(spi1CR1)&spiSPE == 0 {
		return v
	}
	in := s.exchange(byte(v))
	if !s.spiStall {
		s.spiRx = in
		s.put(spi1SR, s.get(spi1SR)|spiRXNE)
	}
	return v
}

func (s *STM32) setSR1(set, clear uint32) {
	s.put(i2c1SR1, s.get(i2c1SR1)&^clear|set)
}

func (s *STM32) writeI2CCR1(_, v uint32) uint32 {
	if v&i2cPE == 0 {
		s.i2c = i2cIdle
		s.put(i2c1SR1, 0)
		s.put(i2c1SR2, 0)
		return v
	}
	if v&i2cSTART != 0 && !s.i2cStall {
		s.bus.start()
		s.i2c = i2cStarted
		s.setSR1(i2cSB, i2cADDR|i2cBTF|i2cTXE|i2cRXNE)
		s.put(i2c1SR2, i2cMSL|i2cBUSY)
		v &^= i2cSTART
	}
	if v&i2cSTOP != 0 {
		s.bus.stop()
		s.i2c = i2cIdle
		s.setSR1(0, i2cSB|i2cADDR|i2cBTF|i2cTXE|i2cRXNE)
		s.put(i2c1SR2, 0)
		v &^= i2cSTOP | i2cSTART
	}
	return v
}

func (s *STM32) writeI2CDR(_, v uint32) uint32 {
	if s.i2cStall {
		return v
	}
	switch s.i2c {
	case i2cStarted:
		s.setSR1(0, i2cSB)
		ack, read := s.bus.address(byte(v))
		switch {
		case !ack:
			s.setSR1(i2cAF, 0)
			s.i2c = i2cRejected
		case read:
			s.setSR1(i2cADDR, 0)
			s.i2c = i2cAddrRead
		default:
			s.setSR1(i2cADDR, 0)
			s.i2c = i2cAddrWrite
		}
	case i2cTransmit:
		if s.bus.write(byte(v)) {
			s.setSR1(i2cTXE|i2cBTF, 0)
		} else {
			s.setSR1(i2cAF, i2cTXE|i2cBTF)
		}
	}
	return v
}

// readI2CSR1 latches the next received byte lazily, so the ACK bit in CR1
// at the time of the first poll decides the master's answer.
func (s *STM32) readI2CSR1(stored uint32) uint32 {
	if s.i2c == i2cReceive && stored&i2cRXNE == 0 && !s.i2cStall {
		s.i2cRx = s.bus.read(s.get(i2c1CR1)&i2cACK != 0)
		stored |= i2cRXNE
		s.put(i2c1SR1, stored)
	}
	s.sr1Seen = true
	return stored
}

// AF and the other error flags are cleared by writing zero.
func (s *STM32) writeI2CSR1(old, v uint32) uint32 {
	if v&i2cAF == 0 {
		return old &^ i2cAF
	}
	return old
}

// Reading SR2 after SR1 clears ADDR and starts the data phase.
func (s *STM32) readI2CSR2(stored uint32) uint32 {
	if s.sr1Seen && s.get(i2c1SR1)&i2cADDR != 0 {
		s.setSR1(0, i2cADDR)
		switch s.i2c {
		case i2cAddrRead:
			s.i2c = i2cReceive
		case i2cAddrWrite:
			s.i2c = i2cTransmit
			s.setSR1(i2cTXE, 0)
			stored |= i2cTRA
		}
	}
	s.sr1Seen = false
	return stored
}

func (s *STM32) readI2CDR(stored uint32) uint32 {
	if s.get(i2c1SR1)&i2cRXNE != 0 {
		s.setSR1(0, i2cRXNE)
		return uint32(s.i2cRx)
	}
	return stored
}
