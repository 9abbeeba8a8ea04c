// Package regs provides typed access to memory-mapped peripheral registers.
//
// A register is a fixed address bound to a Space. Every Get and Set goes to
// the Space in program order; nothing is cached, so a status bit polled in a
// loop is re-read on every iteration. On silicon the Space is MMIO, backed by
// runtime/volatile. On host builds the Space is a simulator.
//
// Read-modify-write helpers (SetBits, ClearBits, ReplaceBits) always read
// the register immediately before writing it back.
package regs

// Space is a memory-mapped register address space.
// Implementations must perform each access exactly once, in call order.
type Space interface {
	Load8(addr uintptr) uint8
	Store8(addr uintptr, v uint8)
	Load32(addr uintptr) uint32
	Store32(addr uintptr, v uint32)
}

// Reg8 is an 8-bit register at a fixed address.
type Reg8 struct {
	sp   Space
	addr uintptr
}

// At8 binds an 8-bit register at addr in sp.
func At8(sp Space, addr uintptr) Reg8 { return Reg8{sp: sp, addr: addr} }

func (r Reg8) Addr() uintptr { return r.addr }
func (r Reg8) Get() uint8    { return r.sp.Load8(r.addr) }
func (r Reg8) Set(v uint8)   { r.sp.Store8(r.addr, v) }

func (r Reg8) SetBits(mask uint8)   { r.Set(r.Get() | mask) }
func (r Reg8) ClearBits(mask uint8) { r.Set(r.Get() &^ mask) }

// HasBits reports whether any bit of mask is set.
func (r Reg8) HasBits(mask uint8) bool { return r.Get()&mask != 0 }

// WaitSet polls until any bit of mask reads as set or the budget runs out.
func (r Reg8) WaitSet(op string, mask uint8, b Budget) error {
	return b.Until(op, func() bool { return r.Get()&mask != 0 })
}

// Reg32 is a 32-bit register at a fixed address.
type Reg32 struct {
	sp   Space
	addr uintptr
}

// At32 binds a 32-bit register at addr in sp.
func At32(sp Space, addr uintptr) Reg32 { return Reg32{sp: sp, addr: addr} }

func (r Reg32) Addr() uintptr { return r.addr }
func (r Reg32) Get() uint32   { return r.sp.Load32(r.addr) }
func (r Reg32) Set(v uint32)  { r.sp.Store32(r.addr, v) }

func (r Reg32) SetBits(mask uint32)   { r.Set(r.Get() | mask) }
func (r Reg32) ClearBits(mask uint32) { r.Set(r.Get() &^ mask) }

func (r Reg32) HasBits(mask uint32) bool { return r.Get()&mask != 0 }

// ReplaceBits writes value into the mask-wide field at pos, leaving other bits alone.
func (r Reg32) ReplaceBits(value, mask uint32, pos uint8) {
	r.Set(r.Get()&^(mask<<pos) | (value&mask)<<pos)
}

func (r Reg32) WaitSet(op string, mask uint32, b Budget) error {
	return b.Until(op, func() bool { return r.Get()&mask != 0 })
}
