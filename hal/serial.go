package hal

import (
	"io"

	"halcode-go/errcode"
	"halcode-go/internal/platform"
	"halcode-go/internal/registry"
	"halcode-go/types"
)

// Serial is an owned handle on the target's USART. Besides the byte
// operations it is an io.Reader and io.Writer.
type Serial struct {
	lease
	hw *platform.USART
}

var (
	_ types.USART   = (*Serial)(nil)
	_ io.ReadWriter = (*Serial)(nil)
	_ io.ByteWriter = (*Serial)(nil)
	_ io.ByteReader = (*Serial)(nil)
)

func ClaimUSART(owner string) (*Serial, error) {
	l, err := claim(owner, registry.USART0)
	if err != nil {
		return nil, err
	}
	return &Serial{lease: l, hw: platform.Open().USART}, nil
}

func (s *Serial) Init(baud uint32) error {
	if err := s.check("usart.init"); err != nil {
		return err
	}
	return warn("usart.init", s.hw.Init(baud))
}

func (s *Serial) WriteByte(b byte) error {
	if err := s.check("usart.write"); err != nil {
		return err
	}
	return warn("usart.write", s.hw.WriteByte(b))
}

func (s *Serial) ReadByte() (byte, error) {
	if err := s.check("usart.read"); err != nil {
		return 0, err
	}
	b, err := s.hw.ReadByte()
	return b, warn("usart.read", err)
}

// Write sends p a byte at a time, stopping at the first failure.
func (s *Serial) Write(p []byte) (int, error) {
	if err := s.check("usart.write"); err != nil {
		return 0, err
	}
	for i, b := range p {
		if err := s.hw.WriteByte(b); err != nil {
			return i, warn("usart.write", err)
		}
	}
	return len(p), nil
}

// Read blocks for the first byte, then takes whatever follows until the
// line goes quiet for one poll budget or p is full.
func (s *Serial) Read(p []byte) (int, error) {
	if err := s.check("usart.read"); err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}
	b, err := s.hw.ReadByte()
	if err != nil {
		return 0, warn("usart.read", err)
	}
	p[0] = b
	n := 1
	for n < len(p) {
		b, err := s.hw.ReadByte()
		if errcode.Of(err) == errcode.Timeout {
			break
		}
		if err != nil {
			return n, warn("usart.read", err)
		}
		p[n] = b
		n++
	}
	return n, nil
}
