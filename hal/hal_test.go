//go:build !tinygo

package hal

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"halcode-go/errcode"
	"halcode-go/internal/platform"
	"halcode-go/internal/registry"
	"halcode-go/internal/sim"
	"halcode-go/types"
)

func TestMain(m *testing.M) {
	if err := Configure(types.Config{PollBudget: 256}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestConfigureAfterClaimFails(t *testing.T) {
	g, err := ClaimGPIO("cfg")
	if err != nil {
		t.Fatal(err)
	}
	defer g.Release()
	if err := Configure(types.Config{PollBudget: 1}); !errors.Is(err, errcode.Error) {
		t.Fatalf("Configure after open: %v", err)
	}
}

func chip() sim.Chip { return platform.Sim() }

// attach places a register-file target at addr with Regs[i] = i+1.
func attach(addr uint8) *sim.RegisterTarget {
	dev := &sim.RegisterTarget{}
	for i := range dev.Regs {
		dev.Regs[i] = byte(i + 1)
	}
	chip().I2C().Attach(addr, dev)
	return dev
}

func TestGPIORoundTrip(t *testing.T) {
	defer ReleaseDefaults()
	if err := ConfigurePin(5, types.PinOutput); err != nil {
		t.Fatal(err)
	}
	for _, v := range []types.PinValue{types.High, types.Low} {
		if err := WritePin(5, v); err != nil {
			t.Fatal(err)
		}
		if got, err := ReadPin(5); err != nil || got != v {
			t.Fatalf("ReadPin=%v,%v want %v", got, err, v)
		}
	}
}

func TestPinRange(t *testing.T) {
	defer ReleaseDefaults()
	if _, err := types.NewPin(32); !errors.Is(err, errcode.InvalidPin) {
		t.Fatalf("NewPin(32): %v", err)
	}
	g, err := defaultGPIO()
	if err != nil {
		t.Fatal(err)
	}
	if err := WritePin(types.Pin(g.NumPins()), types.High); !errors.Is(err, errcode.InvalidPin) {
		t.Fatalf("pin past port width: %v", err)
	}
}

func TestGPIOToggleHandle(t *testing.T) {
	g, err := ClaimGPIO("blinker")
	if err != nil {
		t.Fatal(err)
	}
	defer g.Release()
	_ = g.ConfigurePin(2, types.PinOutput)
	_ = g.WritePin(2, types.Low)
	if err := g.TogglePin(2); err != nil {
		t.Fatal(err)
	}
	if v, _ := g.ReadPin(2); v != types.High {
		t.Fatal("toggle did not raise the pin")
	}
}

func TestUSARTFlat(t *testing.T) {
	defer ReleaseDefaults()
	if err := USARTInit(9600); err != nil {
		t.Fatal(err)
	}
	before := len(chip().TX())
	for _, b := range []byte("ok") {
		if err := USARTWrite(b); err != nil {
			t.Fatal(err)
		}
	}
	if got := string(chip().TX()[before:]); got != "ok" {
		t.Fatalf("TX=%q", got)
	}
	chip().InjectRX('x')
	if b, err := USARTRead(); err != nil || b != 'x' {
		t.Fatalf("USARTRead=%q,%v", b, err)
	}
	if err := USARTInit(0); !errors.Is(err, errcode.InvalidBaud) {
		t.Fatalf("USARTInit(0): %v", err)
	}
}

func TestSerialReaderWriter(t *testing.T) {
	s, err := ClaimUSART("console")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Release()
	if err := s.Init(19200); err != nil {
		t.Fatal(err)
	}
	before := len(chip().TX())
	fmt.Fprintf(s, "v=%d", 7)
	if got := string(chip().TX()[before:]); got != "v=7" {
		t.Fatalf("TX=%q", got)
	}

	chip().InjectRX('a', 'b', 'c')
	buf := make([]byte, 8)
	n, err := s.Read(buf)
	if err != nil || string(buf[:n]) != "abc" {
		t.Fatalf("Read=%q,%v", buf[:n], err)
	}
	if _, err := s.Read(buf); !errors.Is(err, errcode.Timeout) {
		t.Fatalf("Read on quiet line: %v", err)
	}
}

func TestOwnership(t *testing.T) {
	a, err := ClaimI2C("sensor-a")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ClaimI2C("sensor-b"); !errors.Is(err, errcode.BusInUse) {
		t.Fatalf("second claim: %v", err)
	}
	if err := I2CInit(100_000); !errors.Is(err, errcode.BusInUse) {
		t.Fatalf("flat call while held: %v", err)
	}
	if owner, ok := Owner(registry.I2C0); !ok || owner != "sensor-a" {
		t.Fatalf("Owner=%q,%v", owner, ok)
	}
	if err := a.Release(); err != nil {
		t.Fatal(err)
	}
	if err := a.Init(100_000); !errors.Is(err, errcode.NotOwner) {
		t.Fatalf("use after release: %v", err)
	}
	if err := a.Release(); !errors.Is(err, errcode.NotOwner) {
		t.Fatalf("double release: %v", err)
	}
	b, err := ClaimI2C("sensor-b")
	if err != nil {
		t.Fatal(err)
	}
	_ = b.Release()
}

func TestI2CZeroLengthRead(t *testing.T) {
	defer ReleaseDefaults()
	attach(0x42)
	if err := I2CInit(100_000); err != nil {
		t.Fatal(err)
	}
	chip().I2C().ResetTrace()
	last, err := I2CRead(0x42, nil)
	if err != nil || last != 0 {
		t.Fatalf("I2CRead=%d,%v", last, err)
	}
	if got, want := chip().I2C().TraceString(), "S A42R+ P"; got != want {
		t.Fatalf("trace %q want %q", got, want)
	}
}

func TestI2CAckPattern(t *testing.T) {
	defer ReleaseDefaults()
	attach(0x42)
	if err := I2CInit(100_000); err != nil {
		t.Fatal(err)
	}
	for _, n := range []int{1, 2, 5} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			// Point the register file back at 0.
			if err := I2CWrite(0x42, []byte{0}); err != nil {
				t.Fatal(err)
			}
			chip().I2C().ResetTrace()
			buf := make([]byte, n)
			last, err := I2CRead(0x42, buf)
			if err != nil {
				t.Fatal(err)
			}
			var acks []string
			for _, ev := range chip().I2C().Trace() {
				if ev.Kind == sim.EvRead {
					acks = append(acks, fmt.Sprint(ev.Ack))
				}
			}
			want := strings.TrimSpace(strings.Repeat("true ", n-1) + "false")
			if got := strings.Join(acks, " "); got != want {
				t.Fatalf("acks %q want %q", got, want)
			}
			if last != byte(n) || last != buf[n-1] {
				t.Fatalf("last=%d buf=%v", last, buf)
			}
		})
	}
}

func TestI2CWriteAckPattern(t *testing.T) {
	defer ReleaseDefaults()
	dev := attach(0x43)
	if err := I2CInit(100_000); err != nil {
		t.Fatal(err)
	}
	for _, n := range []int{1, 2, 5} {
		chip().I2C().ResetTrace()
		data := bytes.Repeat([]byte{0x09}, n)
		if err := I2CWrite(0x43, data); err != nil {
			t.Fatal(err)
		}
		want := "S A43W+" + strings.Repeat(" w09+", n) + " P"
		if got := chip().I2C().TraceString(); got != want {
			t.Fatalf("n=%d trace %q want %q", n, got, want)
		}
	}
	if dev.Pointer() != 0x09+4 {
		t.Fatalf("pointer %#x", dev.Pointer())
	}
}

func TestI2CInitRejectsBadClock(t *testing.T) {
	defer ReleaseDefaults()
	for _, hz := range []uint32{0, 500_000, 1_000_000} {
		if err := I2CInit(hz); !errors.Is(err, errcode.InvalidClock) {
			t.Fatalf("I2CInit(%d): %v", hz, err)
		}
	}
}

func TestI2CStallAndNack(t *testing.T) {
	defer ReleaseDefaults()
	if err := I2CInit(100_000); err != nil {
		t.Fatal(err)
	}

	chip().I2C().ResetTrace()
	if err := I2CWrite(0x7E, []byte{1}); !errors.Is(err, errcode.Nack) {
		t.Fatalf("absent target: %v", err)
	}
	if got, want := chip().I2C().TraceString(), "S A7eW- P"; got != want {
		t.Fatalf("trace %q want %q", got, want)
	}

	chip().StallI2C(true)
	defer chip().StallI2C(false)
	chip().I2C().ResetTrace()
	err := I2CWrite(0x42, []byte{1})
	if !errors.Is(err, errcode.Timeout) || !errcode.Retryable(err) {
		t.Fatalf("stalled bus: %v", err)
	}
	if got := chip().I2C().TraceString(); got != "P" {
		t.Fatalf("trace %q", got)
	}
	if _, err := I2CRead(0x80, nil); !errors.Is(err, errcode.InvalidAddress) {
		t.Fatalf("address 0x80: %v", err)
	}
}

func TestSPILoopback(t *testing.T) {
	defer ReleaseDefaults()
	chip().SetSPIPeer(nil)
	if err := SPIInitMaster(); err != nil {
		t.Fatal(err)
	}
	for _, x := range []byte{0x00, 0xA5, 0xFF} {
		if got, err := SPITransfer(x); err != nil || got != x {
			t.Fatalf("SPITransfer(%#x)=%#x,%v", x, got, err)
		}
	}
	if err := SPIWrite(0x3C); err != nil {
		t.Fatal(err)
	}
	if got, err := SPIRead(); err != nil || got != 0x3C {
		t.Fatalf("SPIRead=%#x,%v", got, err)
	}
	if err := SPIInitSlave(); err != nil {
		t.Fatal(err)
	}
}

func TestSPIDriversTx(t *testing.T) {
	s, err := ClaimSPI("flash")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Release()
	chip().SetSPIPeer(func(out byte) byte { return out ^ 0xFF })
	defer chip().SetSPIPeer(nil)
	_ = s.InitMaster()

	r := make([]byte, 3)
	if err := s.Tx([]byte{1, 2, 3}, r); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(r, []byte{0xFE, 0xFD, 0xFC}) {
		t.Fatalf("r=%x", r)
	}
	if err := s.Tx(nil, r[:2]); err != nil || r[0] != 0xFF {
		t.Fatalf("read-only Tx: %x,%v", r, err)
	}
	if err := s.Tx([]byte{1}, r); err == nil {
		t.Fatal("mismatched lengths accepted")
	}
}

func TestPeriphI2CDev(t *testing.T) {
	h, err := ClaimI2C("periph")
	if err != nil {
		t.Fatal(err)
	}
	defer h.Release()
	bus := PeriphI2C{h}
	if err := bus.SetSpeed(100 * physic.KiloHertz); err != nil {
		t.Fatal(err)
	}
	if err := bus.SetSpeed(0); !errors.Is(err, errcode.InvalidClock) {
		t.Fatalf("SetSpeed(0): %v", err)
	}

	dev := attach(0x50)
	d := &i2c.Dev{Bus: bus, Addr: 0x50}
	if _, err := d.Write([]byte{0x30, 0xAB}); err != nil {
		t.Fatal(err)
	}
	if dev.Regs[0x30] != 0xAB {
		t.Fatal("periph write did not land")
	}
	r := make([]byte, 1)
	if err := d.Tx([]byte{0x30}, r); err != nil || r[0] != 0xAB {
		t.Fatalf("periph Tx=%x,%v", r, err)
	}
}

func TestPeriphSPIConn(t *testing.T) {
	h, err := ClaimSPI("periph")
	if err != nil {
		t.Fatal(err)
	}
	defer h.Release()
	chip().SetSPIPeer(nil)
	port := PeriphSPI{h}
	if _, err := port.Connect(physic.MegaHertz, spi.Mode3, 8); !errors.Is(err, errcode.Unsupported) {
		t.Fatalf("mode 3: %v", err)
	}
	c, err := port.Connect(physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		t.Fatal(err)
	}
	if h.Role() != types.SPIMaster {
		t.Fatal("Connect did not select master mode")
	}
	r := make([]byte, 2)
	if err := c.TxPackets([]spi.Packet{{W: []byte{7, 8}, R: r}}); err != nil {
		t.Fatal(err)
	}
	if r[0] != 7 || r[1] != 8 {
		t.Fatalf("r=%v", r)
	}
}
