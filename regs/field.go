package regs

import "golang.org/x/exp/constraints"

// Field is a contiguous bit field of a register value.
type Field[T constraints.Unsigned] struct {
	Pos   uint8
	Width uint8
}

// Bit returns a one-bit mask at pos.
func Bit[T constraints.Unsigned](pos uint8) T { return T(1) << pos }

// Mask returns the in-place mask of the field.
func (f Field[T]) Mask() T {
	return (T(1)<<f.Width - 1) << f.Pos
}

// Get extracts the field from v, right-aligned.
func (f Field[T]) Get(v T) T {
	return (v & f.Mask()) >> f.Pos
}

// Put returns v with the field replaced by x. Bits of x beyond the field
// width are dropped.
func (f Field[T]) Put(v, x T) T {
	return v&^f.Mask() | (x<<f.Pos)&f.Mask()
}

// Fits reports whether x is representable in the field.
func (f Field[T]) Fits(x T) bool {
	return x <= T(1)<<f.Width-1
}

// Overlaps reports whether f and g share any bit.
func (f Field[T]) Overlaps(g Field[T]) bool {
	return f.Mask()&g.Mask() != 0
}

// Disjoint reports whether no two fields in fs overlap.
func Disjoint[T constraints.Unsigned](fs ...Field[T]) bool {
	var seen T
	for _, f := range fs {
		if seen&f.Mask() != 0 {
			return false
		}
		seen |= f.Mask()
	}
	return true
}
