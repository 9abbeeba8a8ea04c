// Package targets describes the chips the HAL builds for. The table is
// embedded from targets.yaml; tools use it to list targets, print build tags
// and range-check scenario parameters before touching a backend.
package targets

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"halcode-go/errcode"
	"halcode-go/types"
)

//go:embed targets.yaml
var rawTargets []byte

var all Targets

func init() {
	if err := yaml.Unmarshal(rawTargets, &all); err != nil {
		panic(err)
	}
	for _, t := range all {
		if err := t.Validate(); err != nil {
			panic(err)
		}
	}
}

// All returns every known target.
func All() Targets { return all }

type Targets []Target

// Target is one chip the HAL can be built for. It holds what the chip has,
// not how a board wires it.
type Target struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Tags        []string    `yaml:"tags"`
	RefClockHz  uint32      `yaml:"refClockHz"`
	GPIO        GPIO        `yaml:"gpio"`
	Controllers Controllers `yaml:"controllers"`
	Limits      Limits      `yaml:"limits"`
}

type GPIO struct {
	Port string `yaml:"port"`
	Pins uint8  `yaml:"pins"`
}

// Controllers lists peripheral identities; they match the registry resource
// names.
type Controllers struct {
	USART []string `yaml:"usart"`
	SPI   []string `yaml:"spi"`
	I2C   []string `yaml:"i2c"`
}

// Limits are the parameter ranges the backend accepts at RefClockHz.
type Limits struct {
	MinBaud  uint32 `yaml:"minBaud"`
	MaxBaud  uint32 `yaml:"maxBaud"`
	MinI2CHz uint32 `yaml:"minI2CHz"`
	MaxI2CHz uint32 `yaml:"maxI2CHz"`
}

// Find looks a target up by name, case-insensitively.
func (ts Targets) Find(name string) (Target, error) {
	name = strings.ToLower(name)
	for _, t := range ts {
		if t.Name == name {
			return t, nil
		}
	}
	return Target{}, errcode.New(errcode.Unsupported, "targets.find", "unknown target "+name)
}

// Names lists target names in table order.
func (ts Targets) Names() []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Name
	}
	return out
}

func (t Target) Validate() error {
	switch {
	case t.Name == "":
		return fmt.Errorf("targets: entry without name")
	case t.RefClockHz == 0:
		return fmt.Errorf("targets: %s: refClockHz missing", t.Name)
	case t.GPIO.Pins == 0 || t.GPIO.Pins > types.MaxPins:
		return fmt.Errorf("targets: %s: gpio.pins %d outside 1..%d", t.Name, t.GPIO.Pins, types.MaxPins)
	case t.Limits.MinBaud > t.Limits.MaxBaud || t.Limits.MinI2CHz > t.Limits.MaxI2CHz:
		return fmt.Errorf("targets: %s: inverted limits", t.Name)
	}
	return nil
}

// BuildTags is the tag string for `tinygo build -tags`.
func (t Target) BuildTags() string { return strings.Join(t.Tags, ",") }

// HasController reports whether the chip has the named controller.
func (t Target) HasController(id string) bool {
	c := t.Controllers
	return slices.Contains(c.USART, id) || slices.Contains(c.SPI, id) || slices.Contains(c.I2C, id)
}

// Config is the backend configuration for this target.
func (t Target) Config() types.Config { return types.Config{RefClockHz: t.RefClockHz} }

// CheckPin rejects pins outside the GPIO port.
func (t Target) CheckPin(n int) error {
	p, err := types.NewPin(n)
	if err != nil {
		return err
	}
	if p.Number() >= t.GPIO.Pins {
		return errcode.New(errcode.InvalidPin, "targets.pin", fmt.Sprintf("%s has %d pins", t.GPIO.Port, t.GPIO.Pins))
	}
	return nil
}

// CheckBaud rejects rates outside Limits.
func (t Target) CheckBaud(baud uint32) error {
	if baud < t.Limits.MinBaud || baud > t.Limits.MaxBaud {
		return errcode.New(errcode.InvalidBaud, "targets.baud", fmt.Sprintf("%d outside %d..%d", baud, t.Limits.MinBaud, t.Limits.MaxBaud))
	}
	return nil
}

// CheckI2CHz rejects SCL frequencies outside Limits.
func (t Target) CheckI2CHz(hz uint32) error {
	if hz < t.Limits.MinI2CHz || hz > t.Limits.MaxI2CHz {
		return errcode.New(errcode.InvalidClock, "targets.i2c", fmt.Sprintf("%d outside %d..%d", hz, t.Limits.MinI2CHz, t.Limits.MaxI2CHz))
	}
	return nil
}
