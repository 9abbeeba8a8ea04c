package sim

// ATmega328P data-space addresses modelled by AVR.
const (
	avrPINB  = 0x23
	avrDDRB  = 0x24
	avrPORTB = 0x25

	avrSPCR = 0x4C
	avrSPSR = 0x4D
	avrSPDR = 0x4E

	avrTWBR = 0xB8
	avrTWSR = 0xB9
	avrTWAR = 0xBA
	avrTWDR = 0xBB
	avrTWCR = 0xBC

	avrUCSR0A = 0xC0
	avrUCSR0B = 0xC1
	avrUCSR0C = 0xC2
	avrUBRR0L = 0xC4
	avrUBRR0H = 0xC5
	avrUDR0   = 0xC6
)

const (
	avrRXC0  = 1 << 7
	avrUDRE0 = 1 << 5
	avrRXEN0 = 1 << 4
	avrTXEN0 = 1 << 3

	avrSPE   = 1 << 6
	avrSPIF  = 1 << 7
	avrSPI2X = 1 << 0

	avrTWINT = 1 << 7
	avrTWEA  = 1 << 6
	avrTWSTA = 1 << 5
	avrTWSTO = 1 << 4
	avrTWEN  = 1 << 2
)

// TWI status codes (TWSR & 0xF8).
const (
	twStart      = 0x08
	twRepStart   = 0x10
	twSLAWAck    = 0x18
	twSLAWNack   = 0x20
	twDataWAck   = 0x28
	twDataWNack  = 0x30
	twSLARAck    = 0x40
	twSLARNack   = 0x48
	twDataRAck   = 0x50
	twDataRNack  = 0x58
	twNoInfo     = 0xF8
	twStatusMask = 0xF8
)

type twiPhase uint8

const (
	twiIdle twiPhase = iota
	twiStarted
	twiWriting
	twiReading
	twiRejected
)

// AVR models an ATmega328P's PORTB, USART0, SPI and TWI.
type AVR struct {
	*Memory
	world

	spifSeen bool
	spiRx    byte
	twi      twiPhase
}

var _ Chip = (*AVR)(nil)

func NewAVR() *AVR {
	m := NewMemory()
	a := &AVR{Memory: m, world: newWorld(m)}

	m.Hook(avrPINB, Hook{Read: a.readPINB, Write: a.writePINB})
	m.Hook(avrUCSR0A, Hook{Read: a.readUCSR0A})
	m.Hook(avrUDR0, Hook{Read: a.readUDR0, Write: a.writeUDR0})
	m.Hook(avrSPSR, Hook{Read: a.readSPSR, Write: writeSPSR})
	m.Hook(avrSPDR, Hook{Read: a.readSPDR, Write: a.writeSPDR})
	m.Hook(avrTWCR, Hook{Write: a.writeTWCR})

	// Reset values.
	m.Poke(avrUCSR0A, avrUDRE0)
	m.Poke(avrUCSR0C, 0x06)
	m.Poke(avrTWSR, twNoInfo)
	m.Poke(avrTWDR, 0xFF)
	m.Poke(avrTWAR, 0xFE)
	return a
}

func (a *AVR) Name() string { return "atmega328p" }

func (a *AVR) readPINB(uint32) uint32 {
	ddr, port := uint8(a.get(avrDDRB)), uint8(a.get(avrPORTB))
	v := port & ddr
	for pin := uint8(0); pin < 8; pin++ {
		bit := uint8(1) << pin
		if ddr&bit == 0 && a.external(pin, port&bit != 0) {
			v |= bit
		}
	}
	return uint32(v)
}

// Writing a one to PINn toggles PORTn.
func (a *AVR) writePINB(old, v uint32) uint32 {
	a.put(avrPORTB, a.get(avrPORTB)^(v&0xFF))
	return old
}

func (a *AVR) readUCSR0A(stored uint32) uint32 {
	v := stored &^ (avrRXC0 | avrUDRE0)
	if !a.txStall {
		v |= avrUDRE0
	}
	if a.get(avrUCSR0B)&avrRXEN0 != 0 && len(a.rx) > 0 {
		v |= avrRXC0
	}
	return v
}

func (a *AVR) readUDR0(stored uint32) uint32 {
	if a.get(avrUCSR0B)&avrRXEN0 == 0 {
		return stored
	}
	if b, ok := a.popRX(); ok {
		return uint32(b)
	}
	return stored
}

// The transmitter drops bytes while disabled.
func (a *AVR) writeUDR0(old, v uint32) uint32 {
	if a.get(avrUCSR0B)&avrTXEN0 != 0 {
		a.tx = append(a.tx, byte(v))
	}
	return old
}

func (a *AVR) readSPSR(stored uint32) uint32 {
	if stored&avrSPIF != 0 {
		a.spifSeen = true
	}
	return stored
}

// writeSPSR keeps the read-only flags; only SPI2X is writable.
func writeSPSR(old, v uint32) uint32 { return old&^avrSPI2X | v&avrSPI2X }

// clearSPIF follows the datasheet: SPIF clears on an SPDR access that
// follows a read of SPSR with SPIF set.
func (a *AVR) clearSPIF() {
	if a.spifSeen {
		a.put(avrSPSR, a.get(avrSPSR)&^avrSPIF)
		a.spifSeen = false
	}
}

func (a *AVR) readSPDR(uint32) uint32 {
	a.clearSPIF()
	return uint32(a.spiRx)
}

func (a *AVR) writeSPDR(_, v uint32) uint32 {
	a.clearSPIF()
	if a.get(avrSPCR)&avrSPE == 0 {
		return v
	}
	in := a.exchange(byte(v))
	if !a.spiStall {
		a.spiRx = in
		a.put(avrSPSR, a.get(avrSPSR)|avrSPIF)
	}
	return v
}

func (a *AVR) setTWStatus(code uint32) {
	a.put(avrTWSR, a.get(avrTWSR)&^twStatusMask|code)
}

// writeTWCR runs one TWI action per write with TWINT set. The stored TWINT
// bit reads back as set when the action has completed.
func (a *AVR) writeTWCR(old, v uint32) uint32 {
	if v&avrTWEN == 0 {
		a.twi = twiIdle
		return v &^ avrTWINT
	}
	if v&avrTWINT == 0 {
		// Writing zero to TWINT has no effect on the flag.
		return v | old&avrTWINT
	}
	if v&avrTWSTO != 0 {
		a.bus.stop()
		a.twi = twiIdle
		a.setTWStatus(twNoInfo)
		return v &^ (avrTWINT | avrTWSTO)
	}
	if a.i2cStall {
		return v &^ avrTWINT
	}
	if v&avrTWSTA != 0 {
		if a.bus.start() {
			a.setTWStatus(twRepStart)
		} else {
			a.setTWStatus(twStart)
		}
		a.twi = twiStarted
		return v
	}
	switch a.twi {
	case twiStarted:
		ack, read := a.bus.address(byte(a.get(avrTWDR)))
		switch {
		case read && ack:
			a.setTWStatus(twSLARAck)
			a.twi = twiReading
		case read:
			a.setTWStatus(twSLARNack)
			a.twi = twiRejected
		case ack:
			a.setTWStatus(twSLAWAck)
			a.twi = twiWriting
		default:
			a.setTWStatus(twSLAWNack)
			a.twi = twiRejected
		}
	case twiWriting:
		if a.bus.write(byte(a.get(avrTWDR))) {
			a.setTWStatus(twDataWAck)
		} else {
			a.setTWStatus(twDataWNack)
		}
	case twiReading:
		ack := v&avrTWEA != 0
		a.put(avrTWDR, uint32(a.bus.read(ack)))
		if ack {
			a.setTWStatus(twDataRAck)
		} else {
			a.setTWStatus(twDataRNack)
		}
	default:
		a.setTWStatus(twNoInfo)
	}
	return v
}
