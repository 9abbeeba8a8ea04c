// Package conv formats numbers into caller buffers without fmt or strconv,
// for messages built on targets where those packages are too large.
package conv

import "halcode-go/x/mathx"

const hexd = "0123456789ABCDEF"

// AppendHex appends digits uppercase hex digits of n to dst, zero-padded.
// digits is clamped to 1..8.
func AppendHex(dst []byte, n uint32, digits int) []byte {
	digits = mathx.Clamp(digits, 1, 8)
	for shift := (digits - 1) * 4; shift >= 0; shift -= 4 {
		dst = append(dst, hexd[(n>>shift)&0xF])
	}
	return dst
}

// HexString returns "0x" followed by digits hex digits of n.
func HexString(n uint32, digits int) string {
	var b [10]byte
	return string(AppendHex(append(b[:0], '0', 'x'), n, digits))
}

// AppendUint appends the decimal form of n to dst.
func AppendUint(dst []byte, n uint32) []byte {
	var b [10]byte
	i := len(b)
	for {
		i--
		b[i] = byte('0' + n%10)
		n /= 10
		if n == 0 {
			break
		}
	}
	return append(dst, b[i:]...)
}
