// Package sim is a host-side stand-in for a chip's memory-mapped register
// space. Chip models install read and write hooks on the addresses whose
// hardware behaviour matters (status flags, data registers, control strobes);
// every other address is plain storage.
package sim

import (
	"sync"

	"halcode-go/regs"
)

var _ regs.Space = (*Memory)(nil)

// Hook intercepts accesses to one address. Hooks run with the Memory lock
// held and must only use get/put for other addresses.
type Hook struct {
	// Read returns the value observed by the CPU; stored is the cell content.
	Read func(stored uint32) uint32
	// Write returns the value to store; old is the previous cell content.
	Write func(old, v uint32) uint32
}

// Access is one recorded load or store.
type Access struct {
	Addr  uintptr
	Value uint32
	Write bool
}

// Memory is a register space with per-address hooks.
type Memory struct {
	mu     sync.Mutex
	cells  map[uintptr]uint32
	hooks  map[uintptr]Hook
	record bool
	log    []Access
}

func NewMemory() *Memory {
	return &Memory{
		cells: make(map[uintptr]uint32),
		hooks: make(map[uintptr]Hook),
	}
}

// Hook installs h at addr, replacing any previous hook.
func (m *Memory) Hook(addr uintptr, h Hook) {
	m.mu.Lock()
	m.hooks[addr] = h
	m.mu.Unlock()
}

func (m *Memory) Load8(addr uintptr) uint8 { return uint8(m.load(addr)) }
func (m *Memory) Store8(addr uintptr, v uint8) {
	m.store(addr, uint32(v), 0xFF)
}
func (m *Memory) Load32(addr uintptr) uint32 { return m.load(addr) }
func (m *Memory) Store32(addr uintptr, v uint32) {
	m.store(addr, v, 0xFFFF_FFFF)
}

func (m *Memory) load(addr uintptr) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := m.cells[addr]
	if h, ok := m.hooks[addr]; ok && h.Read != nil {
		v = h.Read(v)
	}
	if m.record {
		m.log = append(m.log, Access{Addr: addr, Value: v})
	}
	return v
}

func (m *Memory) store(addr uintptr, v, width uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.record {
		m.log = append(m.log, Access{Addr: addr, Value: v, Write: true})
	}
	if h, ok := m.hooks[addr]; ok && h.Write != nil {
		v = h.Write(m.cells[addr], v)
	}
	m.cells[addr] = v & width
}

// Peek reads a cell without running hooks.
func (m *Memory) Peek(addr uintptr) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cells[addr]
}

// Poke writes a cell without running hooks.
func (m *Memory) Poke(addr uintptr, v uint32) {
	m.mu.Lock()
	m.cells[addr] = v
	m.mu.Unlock()
}

// Record turns the access log on or off and clears it.
func (m *Memory) Record(on bool) {
	m.mu.Lock()
	m.record = on
	m.log = nil
	m.mu.Unlock()
}

// Accesses returns a copy of the access log.
func (m *Memory) Accesses() []Access {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Access(nil), m.log...)
}

// get and put are for hooks; the lock is already held.
func (m *Memory) get(addr uintptr) uint32    { return m.cells[addr] }
func (m *Memory) put(addr uintptr, v uint32) { m.cells[addr] = v }

// locked runs f under the Memory lock.
func (m *Memory) locked(f func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f()
}
