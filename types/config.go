package types

// DefaultRefClockHz is the reference clock both supported chips run from.
const DefaultRefClockHz = 16_000_000

// Config carries backend operating parameters. All fields are optional.
type Config struct {
	// RefClockHz is the clock divisors are derived from. Default 16 MHz.
	RefClockHz uint32
	// PollBudget caps status reads per busy-poll. Zero uses regs.DefaultBudget.
	PollBudget uint32
}

// WithDefaults fills zero fields.
func (c Config) WithDefaults() Config {
	if c.RefClockHz == 0 {
		c.RefClockHz = DefaultRefClockHz
	}
	return c
}
