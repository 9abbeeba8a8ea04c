package sim

import (
	"fmt"
	"strings"
	"sync"
)

type EventKind uint8

const (
	EvStart EventKind = iota
	EvRestart
	EvAddress
	EvWrite
	EvRead
	EvStop
)

// Event is one bus-level phase. For EvAddress and EvWrite, Ack is the
// target's answer; for EvRead it is the master's.
type Event struct {
	Kind EventKind
	Addr uint8
	Read bool
	Data byte
	Ack  bool
}

// String renders an event compactly: S, Sr, A42W+, w01-, r0a+, P.
// '+' is ACK and '-' is NACK.
func (e Event) String() string {
	ack := "-"
	if e.Ack {
		ack = "+"
	}
	switch e.Kind {
	case EvStart:
		return "S"
	case EvRestart:
		return "Sr"
	case EvAddress:
		dir := "W"
		if e.Read {
			dir = "R"
		}
		return fmt.Sprintf("A%02x%s%s", e.Addr, dir, ack)
	case EvWrite:
		return fmt.Sprintf("w%02x%s", e.Data, ack)
	case EvRead:
		return fmt.Sprintf("r%02x%s", e.Data, ack)
	case EvStop:
		return "P"
	default:
		return "?"
	}
}

// Target is a device on the simulated bus.
type Target interface {
	// Address is called on every address phase for this target; false NACKs.
	Address(read bool) bool
	// Write receives one byte; false NACKs it.
	Write(b byte) bool
	// Read supplies the next byte.
	Read() byte
	// Stop is called on a stop condition.
	Stop()
}

// I2CBus routes master phases to attached targets and records a trace.
type I2CBus struct {
	mu      sync.Mutex
	targets map[uint8]Target
	trace   []Event
	cur     Target
	active  bool
}

func NewI2CBus() *I2CBus {
	return &I2CBus{targets: make(map[uint8]Target)}
}

// Attach places t at the 7-bit address addr.
func (b *I2CBus) Attach(addr uint8, t Target) {
	b.mu.Lock()
	b.targets[addr&0x7F] = t
	b.mu.Unlock()
}

// Trace returns a copy of the recorded events.
func (b *I2CBus) Trace() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Event(nil), b.trace...)
}

// TraceString joins the trace with spaces.
func (b *I2CBus) TraceString() string {
	ev := b.Trace()
	s := make([]string, len(ev))
	for i, e := range ev {
		s[i] = e.String()
	}
	return strings.Join(s, " ")
}

func (b *I2CBus) ResetTrace() {
	b.mu.Lock()
	b.trace = nil
	b.mu.Unlock()
}

func (b *I2CBus) emit(e Event) { b.trace = append(b.trace, e) }

// start reports whether this was a repeated start.
func (b *I2CBus) start() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	rep := b.active
	b.active = true
	b.cur = nil
	if rep {
		b.emit(Event{Kind: EvRestart})
	} else {
		b.emit(Event{Kind: EvStart})
	}
	return rep
}

// address takes the raw address byte (addr<<1 | R/W).
func (b *I2CBus) address(raw byte) (ack, read bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	addr, read := raw>>1, raw&1 == 1
	t := b.targets[addr]
	ack = t != nil && t.Address(read)
	if ack {
		b.cur = t
	} else {
		b.cur = nil
	}
	b.emit(Event{Kind: EvAddress, Addr: addr, Read: read, Ack: ack})
	return ack, read
}

func (b *I2CBus) write(v byte) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	ack := b.cur != nil && b.cur.Write(v)
	b.emit(Event{Kind: EvWrite, Data: v, Ack: ack})
	return ack
}

// read returns 0xFF (released bus) when no target is selected.
func (b *I2CBus) read(masterAck bool) byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	v := byte(0xFF)
	if b.cur != nil {
		v = b.cur.Read()
	}
	b.emit(Event{Kind: EvRead, Data: v, Ack: masterAck})
	return v
}

func (b *I2CBus) stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cur != nil {
		b.cur.Stop()
	}
	b.cur = nil
	b.active = false
	b.emit(Event{Kind: EvStop})
}

// RegisterTarget is an 8-bit register file device: the first byte written
// after an address phase selects the register, later bytes write it with
// auto-increment, and reads continue from the selected register.
type RegisterTarget struct {
	Regs [256]byte
	// Absent makes the device NACK its address.
	Absent bool
	// NackAt, when non-zero, NACKs the NackAt-th data byte of a write.
	NackAt int

	ptr     byte
	fresh   bool
	written int
}

func (t *RegisterTarget) Address(read bool) bool {
	if t.Absent {
		return false
	}
	if !read {
		t.fresh = true
		t.written = 0
	}
	return true
}

func (t *RegisterTarget) Write(b byte) bool {
	t.written++
	if t.NackAt > 0 && t.written >= t.NackAt {
		return false
	}
	if t.fresh {
		t.ptr = b
		t.fresh = false
		return true
	}
	t.Regs[t.ptr] = b
	t.ptr++
	return true
}

func (t *RegisterTarget) Read() byte {
	v := t.Regs[t.ptr]
	t.ptr++
	return v
}

func (t *RegisterTarget) Stop() {}

// Pointer is the currently selected register.
func (t *RegisterTarget) Pointer() byte { return t.ptr }

// StreamTarget accepts any write and replays Out on reads, recording what
// it received in In.
type StreamTarget struct {
	In  []byte
	Out []byte
}

func (t *StreamTarget) Address(bool) bool { return true }
func (t *StreamTarget) Write(b byte) bool  { t.In = append(t.In, b); return true }
func (t *StreamTarget) Read() byte {
	if len(t.Out) == 0 {
		return 0xFF
	}
	v := t.Out[0]
	t.Out = t.Out[1:]
	return v
}
func (t *StreamTarget) Stop() {}
