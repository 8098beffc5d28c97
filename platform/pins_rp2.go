//go:build rp2040 || rp2350

package platform

import (
	"machine"

	"boardio-go/hal"
)

// RP2Pins exposes the on-chip GPIO bank (GPIO0..GPIO29).
type RP2Pins struct{}

func (RP2Pins) ByNumber(n int) (hal.Pin, bool) {
	if n < 0 || n > 29 {
		return nil, false
	}
	return rp2Pin{pin: machine.Pin(n)}, true
}

type rp2Pin struct {
	pin machine.Pin
}

func (p rp2Pin) Configure(mode hal.PinMode) error {
	switch mode {
	case hal.ModeInputPullup:
		p.pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	default:
		// RP2 GPIO has no true open-drain mode; an active-low push-pull
		// output drives the indicator the same way.
		p.pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	}
	return nil
}

func (p rp2Pin) Write(level hal.Level) {
	p.pin.Set(level == hal.High)
}

func (p rp2Pin) Read() hal.Level {
	if p.pin.Get() {
		return hal.High
	}
	return hal.Low
}

func (p rp2Pin) Number() int { return int(p.pin) }
