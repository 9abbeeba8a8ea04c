// Package platform selects one backend per build and hands out its
// peripherals. The concrete driver types are aliased by the build-tagged
// files in this package, so calls through them are direct:
//
//	tinygo && atmega328p                 ATmega328P on MMIO
//	tinygo && cortexm3 && !atmega328p    Cortex-M3 on MMIO
//	!tinygo && cortexm3                  Cortex-M3 on the STM32 simulator
//	otherwise                            ATmega328P on the AVR simulator
package platform

import (
	"sync"

	"halcode-go/errcode"
	"halcode-go/types"
	"halcode-go/x/logx"
)

var (
	mu     sync.Mutex
	once   sync.Once
	config types.Config
	opened bool
	chip   *Chip
)

// Configure sets backend parameters. Once the backend is open the
// configuration is fixed; a later call is refused with errcode.Error.
func Configure(cfg types.Config) error {
	mu.Lock()
	defer mu.Unlock()
	if opened {
		return errcode.New(errcode.Error, "platform.configure", "backend already open")
	}
	config = cfg
	return nil
}

// Open binds the selected backend to its register space, once.
func Open() *Chip {
	once.Do(func() {
		mu.Lock()
		cfg := config.WithDefaults()
		opened = true
		mu.Unlock()
		chip = newChip(cfg)
		logx.For(logx.Platform).Debug("backend opened", "target", Target,
			"ref_clock_hz", cfg.RefClockHz, "poll_budget", cfg.PollBudget)
	})
	return chip
}
