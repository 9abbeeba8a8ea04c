//go:build !tinygo

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"halcode-go/errcode"
	"halcode-go/internal/sim"
	"halcode-go/targets"
	"halcode-go/types"
	"halcode-go/x/logx"
)

// Scenario is the YAML description of a simulated board and the script to
// run against it.
type Scenario struct {
	Target     string `yaml:"target"`
	RefClockHz uint32 `yaml:"refClockHz"`
	PollBudget uint32 `yaml:"pollBudget"`
	// Pins drives external levels onto input pins: high or low.
	Pins map[int]string `yaml:"pins"`
	// RX is queued on the USART receive line.
	RX string `yaml:"rx"`
	// SPIPeer is loopback (default), invert, or a fixed byte such as 0x5a.
	SPIPeer string   `yaml:"spiPeer"`
	Devices []Device `yaml:"devices"`
	Script  []string `yaml:"script"`
}

// Device is an I2C target on the simulated bus.
type Device struct {
	Addr uint8 `yaml:"addr"`
	// Kind is registers (default), stream or absent.
	Kind   string          `yaml:"kind"`
	Regs   map[uint8]uint8 `yaml:"regs"`
	NackAt int             `yaml:"nackAt"`
	Out    []uint8         `yaml:"out"`
}

func loadScenario(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseScenario(raw)
}

func parseScenario(raw []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return nil, errcode.Wrap(errcode.Error, "halsim.scenario", err)
	}
	return &sc, nil
}

// config is the backend configuration the scenario asks for.
func (sc *Scenario) config(t targets.Target) types.Config {
	cfg := t.Config()
	if sc.RefClockHz != 0 {
		cfg.RefClockHz = sc.RefClockHz
	}
	cfg.PollBudget = sc.PollBudget
	return cfg
}

// apply checks the scenario against t and wires it into chip.
func (sc *Scenario) apply(t targets.Target, chip sim.Chip) error {
	if sc.Target != "" && !strings.EqualFold(sc.Target, t.Name) {
		return errcode.New(errcode.Unsupported, "halsim.scenario", "scenario is for "+sc.Target)
	}
	for pin, level := range sc.Pins {
		if err := t.CheckPin(pin); err != nil {
			return err
		}
		high, err := parseLevel(level)
		if err != nil {
			return err
		}
		chip.DrivePin(uint8(pin), high == types.High)
	}
	if sc.RX != "" {
		chip.InjectRX([]byte(sc.RX)...)
	}
	peer, err := parsePeer(sc.SPIPeer)
	if err != nil {
		return err
	}
	chip.SetSPIPeer(peer)
	for _, d := range sc.Devices {
		if d.Addr > types.MaxI2CAddress {
			return errcode.New(errcode.InvalidAddress, "halsim.scenario", fmt.Sprintf("device 0x%02x", d.Addr))
		}
		dev, err := d.target()
		if err != nil {
			return err
		}
		chip.I2C().Attach(d.Addr, dev)
		logx.For(logx.Sim).Debug("device attached", "addr", d.Addr, "kind", d.Kind)
	}
	return nil
}

func (d Device) target() (sim.Target, error) {
	switch strings.ToLower(d.Kind) {
	case "", "registers":
		rt := &sim.RegisterTarget{NackAt: d.NackAt}
		for r, v := range d.Regs {
			rt.Regs[r] = v
		}
		return rt, nil
	case "absent":
		return &sim.RegisterTarget{Absent: true}, nil
	case "stream":
		return &sim.StreamTarget{Out: append([]byte(nil), d.Out...)}, nil
	}
	return nil, errcode.New(errcode.Unsupported, "halsim.scenario", "device kind "+d.Kind)
}

func parsePeer(s string) (sim.SPIPeer, error) {
	switch strings.ToLower(s) {
	case "", "loopback":
		return sim.Loopback, nil
	case "invert":
		return func(out byte) byte { return ^out }, nil
	}
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return nil, errcode.New(errcode.Error, "halsim.scenario", "spiPeer "+s)
	}
	return func(byte) byte { return byte(v) }, nil
}
