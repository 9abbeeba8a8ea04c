//go:build !tinygo

package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"halcode-go/errcode"
	"halcode-go/hal"
	"halcode-go/internal/registry"
	"halcode-go/internal/sim"
	"halcode-go/types"
	"halcode-go/x/logx"
)

// session executes script lines against the flat hal surface, printing
// results to out. Lines are shell-tokenized; # starts a comment.
type session struct {
	out  io.Writer
	chip sim.Chip
}

func newSession(out io.Writer, chip sim.Chip) *session {
	return &session{out: out, chip: chip}
}

// Run executes every line of r and stops at the first failure.
func (s *session) Run(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		if err := s.Exec(sc.Text()); err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
	}
	return sc.Err()
}

func (s *session) Exec(line string) error {
	args, err := shlex.Split(line)
	if err != nil {
		return errcode.Wrap(errcode.Error, "halsim.parse", err)
	}
	if len(args) == 0 {
		return nil
	}
	logx.For(logx.CLI).Debug("exec", "cmd", strings.Join(args, " "))
	return s.dispatch(args)
}

func (s *session) dispatch(args []string) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "gpio":
		return s.gpio(rest)
	case "pin":
		return s.pin(rest)
	case "usart":
		return s.usart(rest)
	case "spi":
		return s.spi(rest)
	case "i2c":
		return s.i2c(rest)
	case "trace":
		if len(rest) == 1 && rest[0] == "reset" {
			s.chip.I2C().ResetTrace()
			return nil
		}
		fmt.Fprintln(s.out, "trace", s.chip.I2C().TraceString())
		return nil
	case "stall":
		return s.stall(rest)
	case "owner":
		if err := want(rest, 1); err != nil {
			return err
		}
		owner, ok := hal.Owner(registry.ResourceID(rest[0]))
		if !ok {
			owner = "-"
		}
		fmt.Fprintln(s.out, "owner", rest[0], owner)
		return nil
	case "expect":
		return s.expect(rest)
	}
	return usage("unknown command " + cmd)
}

// expect <code> <command...> runs command and requires it to fail with code.
func (s *session) expect(args []string) error {
	if len(args) < 2 {
		return usage("expect <code> <command...>")
	}
	code := errcode.Code(args[0])
	err := s.dispatch(args[1:])
	if got := errcode.Of(err); got != code {
		return errcode.New(errcode.Error, "halsim.expect", fmt.Sprintf("want %s, got %s", code, got))
	}
	fmt.Fprintln(s.out, "expect", code, "ok")
	return nil
}

func (s *session) gpio(args []string) error {
	if len(args) < 2 {
		return usage("gpio mode|write|read <pin> ...")
	}
	pin, err := parsePin(args[1])
	if err != nil {
		return err
	}
	switch args[0] {
	case "mode":
		if err := want(args, 3); err != nil {
			return err
		}
		mode, err := parseMode(args[2])
		if err != nil {
			return err
		}
		return hal.ConfigurePin(pin, mode)
	case "write":
		if err := want(args, 3); err != nil {
			return err
		}
		v, err := parseLevel(args[2])
		if err != nil {
			return err
		}
		return hal.WritePin(pin, v)
	case "read":
		v, err := hal.ReadPin(pin)
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, "gpio", pin.Number(), v)
		return nil
	}
	return usage("gpio " + args[0])
}

// pin drive <n> high|low|release sets the level an external circuit puts
// on an input pin.
func (s *session) pin(args []string) error {
	if len(args) != 3 || args[0] != "drive" {
		return usage("pin drive <n> high|low|release")
	}
	p, err := parsePin(args[1])
	if err != nil {
		return err
	}
	if args[2] == "release" {
		s.chip.ReleasePin(p.Number())
		return nil
	}
	v, err := parseLevel(args[2])
	if err != nil {
		return err
	}
	s.chip.DrivePin(p.Number(), v == types.High)
	return nil
}

func (s *session) usart(args []string) error {
	if len(args) == 0 {
		return usage("usart init|write|read|inject|tx")
	}
	switch args[0] {
	case "init":
		if err := want(args, 2); err != nil {
			return err
		}
		baud, err := parseUint(args[1], 32)
		if err != nil {
			return err
		}
		return hal.USARTInit(uint32(baud))
	case "write":
		for _, b := range []byte(strings.Join(args[1:], " ")) {
			if err := hal.USARTWrite(b); err != nil {
				return err
			}
		}
		return nil
	case "read":
		if err := want(args, 2); err != nil {
			return err
		}
		n, err := parseUint(args[1], 16)
		if err != nil {
			return err
		}
		buf := make([]byte, 0, n)
		for range n {
			b, err := hal.USARTRead()
			if err != nil {
				return err
			}
			buf = append(buf, b)
		}
		fmt.Fprintf(s.out, "usart rx %q\n", buf)
		return nil
	case "inject":
		s.chip.InjectRX([]byte(strings.Join(args[1:], " "))...)
		return nil
	case "tx":
		fmt.Fprintf(s.out, "usart tx %q\n", s.chip.TX())
		return nil
	}
	return usage("usart " + args[0])
}

func (s *session) spi(args []string) error {
	if len(args) == 0 {
		return usage("spi master|slave|write|read|xfer")
	}
	switch args[0] {
	case "master":
		return hal.SPIInitMaster()
	case "slave":
		return hal.SPIInitSlave()
	case "write":
		bs, err := parseBytes(args[1:])
		if err != nil {
			return err
		}
		for _, b := range bs {
			if err := hal.SPIWrite(b); err != nil {
				return err
			}
		}
		return nil
	case "read":
		b, err := hal.SPIRead()
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "spi rx %02x\n", b)
		return nil
	case "xfer":
		bs, err := parseBytes(args[1:])
		if err != nil {
			return err
		}
		in := make([]byte, len(bs))
		for i, b := range bs {
			if in[i], err = hal.SPITransfer(b); err != nil {
				return err
			}
		}
		fmt.Fprintln(s.out, "spi rx", hexList(in))
		return nil
	}
	return usage("spi " + args[0])
}

func (s *session) i2c(args []string) error {
	if len(args) < 2 {
		return usage("i2c init <hz> | write <addr> <bytes...> | read <addr> <n>")
	}
	if args[0] == "init" {
		hz, err := parseUint(args[1], 32)
		if err != nil {
			return err
		}
		return hal.I2CInit(uint32(hz))
	}
	addr, err := parseUint(args[1], 8)
	if err != nil {
		return err
	}
	switch args[0] {
	case "write":
		bs, err := parseBytes(args[2:])
		if err != nil {
			return err
		}
		return hal.I2CWrite(uint8(addr), bs)
	case "read":
		if err := want(args, 3); err != nil {
			return err
		}
		n, err := parseUint(args[2], 16)
		if err != nil {
			return err
		}
		buf := make([]byte, n)
		if _, err := hal.I2CRead(uint8(addr), buf); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "i2c %02x rx %s\n", addr, hexList(buf))
		return nil
	}
	return usage("i2c " + args[0])
}

// stall usart|spi|i2c on|off freezes a simulated controller.
func (s *session) stall(args []string) error {
	if len(args) != 2 || (args[1] != "on" && args[1] != "off") {
		return usage("stall usart|spi|i2c on|off")
	}
	on := args[1] == "on"
	switch args[0] {
	case "usart":
		s.chip.StallTX(on)
	case "spi":
		s.chip.StallSPI(on)
	case "i2c":
		s.chip.StallI2C(on)
	default:
		return usage("stall " + args[0])
	}
	return nil
}

func usage(msg string) error { return errcode.New(errcode.Error, "halsim.usage", msg) }

func want(args []string, n int) error {
	if len(args) != n {
		return usage(fmt.Sprintf("%s: want %d arguments", args[0], n-1))
	}
	return nil
}

func parseUint(s string, bits int) (uint64, error) {
	v, err := strconv.ParseUint(s, 0, bits)
	if err != nil {
		return 0, errcode.Wrap(errcode.Error, "halsim.parse", err)
	}
	return v, nil
}

func parseBytes(args []string) ([]byte, error) {
	out := make([]byte, len(args))
	for i, a := range args {
		v, err := parseUint(a, 8)
		if err != nil {
			return nil, err
		}
		out[i] = byte(v)
	}
	return out, nil
}

func parsePin(s string) (types.Pin, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errcode.Wrap(errcode.InvalidPin, "halsim.parse", err)
	}
	return types.NewPin(n)
}

func parseMode(s string) (types.PinMode, error) {
	switch strings.ToLower(s) {
	case "input", "in":
		return types.PinInput, nil
	case "output", "out":
		return types.PinOutput, nil
	case "pullup", "input_pullup":
		return types.PinInputPullup, nil
	}
	return 0, errcode.New(errcode.InvalidMode, "halsim.parse", s)
}

func parseLevel(s string) (types.PinValue, error) {
	switch strings.ToLower(s) {
	case "high", "1":
		return types.High, nil
	case "low", "0":
		return types.Low, nil
	}
	return types.Low, errcode.New(errcode.Error, "halsim.parse", "level "+s)
}

func hexList(bs []byte) string {
	parts := make([]string, len(bs))
	for i, b := range bs {
		parts[i] = fmt.Sprintf("%02x", b)
	}
	return strings.Join(parts, " ")
}
