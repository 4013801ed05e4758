package fmdac

import (
	"time"

	"fmdac-go/errcode"
)

// DefaultDesignID is the carrier's design-selection index for the modulator.
const DefaultDesignID = 195

// Sleeper blocks for a duration. Tests inject a recorder.
type Sleeper interface {
	Sleep(d time.Duration)
}

// SleepFunc adapts a function to Sleeper.
type SleepFunc func(time.Duration)

func (f SleepFunc) Sleep(d time.Duration) { f(d) }

// Pins are the carrier control lines used to select and start the design.
type Pins struct {
	Reset     Pin // design reset, active low
	SelEnable Pin // enables the selected design
	SelReset  Pin // clears the design-selection counter, active low
	SelInc    Pin // advances the design-selection counter on a high pulse
}

// BringUpConfig controls the selection sequence. All fields are optional.
type BringUpConfig struct {
	// DesignID defaults to DefaultDesignID if zero.
	DesignID uint16
	// StepDelay separates every pin transition. Default 1 ms.
	StepDelay time.Duration
	// Clock starts the design clock after enabling. Nil skips it.
	Clock func() error
	// Sleeper defaults to time.Sleep.
	Sleeper Sleeper
}

// BringUp selects the design on the carrier and lets it run:
//
//	hold reset, disable, clear inc, pulse counter reset
//	pulse inc DesignID times
//	enable, start clock, release reset
//
// It is a one-shot blocking sequence with no data exchange.
func BringUp(p Pins, cfg BringUpConfig) error {
	if p.Reset == nil || p.SelEnable == nil || p.SelReset == nil || p.SelInc == nil {
		return ErrMissingPin
	}
	id := cfg.DesignID
	if id == 0 {
		id = DefaultDesignID
	}
	step := cfg.StepDelay
	if step <= 0 {
		step = time.Millisecond
	}
	var s Sleeper = SleepFunc(time.Sleep)
	if cfg.Sleeper != nil {
		s = cfg.Sleeper
	}

	p.Reset.Set(false)
	p.SelEnable.Set(false)
	p.SelInc.Set(false)
	p.SelReset.Set(false)
	s.Sleep(step)
	p.SelReset.Set(true)
	s.Sleep(step)

	for i := uint16(0); i < id; i++ {
		p.SelInc.Set(true)
		s.Sleep(step)
		p.SelInc.Set(false)
		s.Sleep(step)
	}

	p.SelEnable.Set(true)
	s.Sleep(step)

	if cfg.Clock != nil {
		if err := cfg.Clock(); err != nil {
			return errcode.Wrap(errcode.NotReady, "fmdac.bringup", err)
		}
		s.Sleep(step)
	}

	p.Reset.Set(true)
	s.Sleep(step)
	return nil
}
