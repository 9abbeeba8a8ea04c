package conv

import "testing"

func TestHexString(t *testing.T) {
	cases := []struct {
		n      uint32
		digits int
		want   string
	}{
		{0x42, 2, "0x42"},
		{0x7, 2, "0x07"},
		{0xABC, 2, "0xBC"},
		{0xDEADBEEF, 8, "0xDEADBEEF"},
		{0x1, 0, "0x1"},
		{0x1, 12, "0x00000001"},
	}
	for _, c := range cases {
		if got := HexString(c.n, c.digits); got != c.want {
			t.Errorf("HexString(%#x, %d)=%q want %q", c.n, c.digits, got, c.want)
		}
	}
}

func TestAppendUint(t *testing.T) {
	for n, want := range map[uint32]string{0: "0", 7: "7", 100000: "100000", 4294967295: "4294967295"} {
		if got := string(AppendUint([]byte("n="), n)); got != "n="+want {
			t.Errorf("AppendUint(%d)=%q", n, got)
		}
	}
}
