package regs

import "halcode-go/errcode"

// Budget caps the number of status reads a busy-poll may perform before it
// gives up. It replaces the unbounded `for !flag {}` loop: the success path
// still blocks, a stalled peripheral returns a retryable timeout.
type Budget uint32

// DefaultBudget is used when a zero Budget is supplied. At 16 MHz a status
// read plus loop overhead costs well under a microsecond, so this bounds a
// stall to tens of milliseconds, far longer than one byte at 9600 baud.
const DefaultBudget Budget = 1 << 16

// OrDefault returns b, or DefaultBudget when b is zero.
func (b Budget) OrDefault() Budget {
	if b == 0 {
		return DefaultBudget
	}
	return b
}

// Until calls cond until it returns true or the budget is spent.
// On expiry it returns an errcode.Timeout error tagged with op.
func (b Budget) Until(op string, cond func() bool) error {
	for n := b.OrDefault(); n > 0; n-- {
		if cond() {
			return nil
		}
	}
	return &errcode.E{C: errcode.Timeout, Op: op}
}
