package sim

import "halcode-go/regs"

// SPIPeer answers one SPI byte exchange: it receives what the chip shifted
// out and returns what it shifts back in.
type SPIPeer func(out byte) (in byte)

// Loopback is the default SPI peer: MISO tied to MOSI.
func Loopback(out byte) byte { return out }

// Chip is a simulated microcontroller: a register space plus the outside
// world its peripherals talk to.
type Chip interface {
	regs.Space
	Name() string

	// DrivePin forces an input pin's level from outside; ReleasePin lets it float.
	DrivePin(pin uint8, high bool)
	ReleasePin(pin uint8)

	// InjectRX queues bytes on the serial receive line.
	InjectRX(b ...byte)
	// TX returns everything the USART has transmitted.
	TX() []byte
	// StallTX holds the transmit-empty flag low.
	StallTX(on bool)

	SetSPIPeer(p SPIPeer)
	// SPISent returns every byte the chip shifted out.
	SPISent() []byte
	// StallSPI suppresses transfer-complete flags.
	StallSPI(on bool)

	I2C() *I2CBus
	// StallI2C stops the controller from completing any bus phase.
	StallI2C(on bool)
}

// world is the state shared by both chip models. All fields are guarded by
// the Memory lock.
type world struct {
	m   *Memory
	bus *I2CBus

	driven, levels uint32

	rx, tx  []byte
	txStall bool

	peer     SPIPeer
	spiSent  []byte
	spiStall bool

	i2cStall bool
}

func newWorld(m *Memory) world {
	return world{m: m, bus: NewI2CBus(), peer: Loopback}
}

func (w *world) DrivePin(pin uint8, high bool) {
	w.m.locked(func() {
		w.driven |= 1 << pin
		if high {
			w.levels |= 1 << pin
		} else {
			w.levels &^= 1 << pin
		}
	})
}

func (w *world) ReleasePin(pin uint8) {
	w.m.locked(func() { w.driven &^= 1 << pin })
}

// external resolves an input pin: a driven level wins, otherwise pull
// decides (pull-down is modelled as floating low).
func (w *world) external(pin uint8, pullup bool) bool {
	if w.driven&(1<<pin) != 0 {
		return w.levels&(1<<pin) != 0
	}
	return pullup
}

func (w *world) InjectRX(b ...byte) {
	w.m.locked(func() { w.rx = append(w.rx, b...) })
}

func (w *world) TX() (out []byte) {
	w.m.locked(func() { out = append([]byte(nil), w.tx...) })
	return out
}

func (w *world) StallTX(on bool) { w.m.locked(func() { w.txStall = on }) }

func (w *world) SetSPIPeer(p SPIPeer) {
	if p == nil {
		p = Loopback
	}
	w.m.locked(func() { w.peer = p })
}

func (w *world) SPISent() (out []byte) {
	w.m.locked(func() { out = append([]byte(nil), w.spiSent...) })
	return out
}

func (w *world) StallSPI(on bool) { w.m.locked(func() { w.spiStall = on }) }

func (w *world) I2C() *I2CBus { return w.bus }

func (w *world) StallI2C(on bool) { w.m.locked(func() { w.i2cStall = on }) }

// popRX takes the next received byte.
func (w *world) popRX() (byte, bool) {
	if len(w.rx) == 0 {
		return 0, false
	}
	b := w.rx[0]
	w.rx = w.rx[1:]
	return b, true
}

// exchange shifts one byte through the SPI peer.
func (w *world) exchange(out byte) byte {
	w.spiSent = append(w.spiSent, out)
	return w.peer(out)
}
