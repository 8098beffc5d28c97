// Package rgbled drives a three-channel, common-anode RGB indicator.
// Each channel is a binary open-drain output: pulling the line LOW
// energises the LED, so channel ON and electrical LOW are synonymous.
package rgbled

import (
	"boardio-go/errcode"
	"boardio-go/hal"
	"boardio-go/types"
)

// Per-channel drive levels for the common-anode wiring.
const (
	onLevel  = hal.Low
	offLevel = hal.High
)

// Controller owns the three channel states and the composite color.
// Single-threaded: callers serialise access.
type Controller struct {
	pins   [types.LedChannelMax]hal.Pin
	states [types.LedChannelMax]types.LedState
	color  types.RGBColor
}

// New binds a controller to its three channel pins, in channel order
// (red, green, blue). Pins are not touched until Init.
func New(red, green, blue hal.Pin) *Controller {
	c := &Controller{}
	c.pins[types.LedRed] = red
	c.pins[types.LedGreen] = green
	c.pins[types.LedBlue] = blue
	return c
}

// Init configures all channel pins as open-drain outputs, drives them to
// the OFF level and resets the composite color to black. Safe to call
// repeatedly.
func (c *Controller) Init() error {
	for i := range c.pins {
		if err := c.pins[i].Configure(hal.ModeOutputOpenDrain); err != nil {
			return err
		}
		c.pins[i].Write(offLevel)
		c.states[i] = types.LedOff
	}
	c.color = types.RGBColor{}
	return nil
}

// Deinit turns every channel off.
func (c *Controller) Deinit() error {
	return c.AllOff()
}

func channelValid(ch types.LedChannel) bool {
	return ch < types.LedChannelMax
}

// setHardware drives one channel and records its state. Callers have
// already validated ch.
func (c *Controller) setHardware(ch types.LedChannel, s types.LedState) {
	level := offLevel
	if s == types.LedOn {
		level = onLevel
	}
	c.pins[ch].Write(level)
	c.states[ch] = s
}

// SetChannel switches one channel and updates the matching composite
// component to 255 or 0, leaving the other two untouched.
func (c *Controller) SetChannel(ch types.LedChannel, s types.LedState) error {
	if !channelValid(ch) {
		return errcode.InvalidChannel
	}
	c.setHardware(ch, s)

	var comp uint8
	if s == types.LedOn {
		comp = 255
	}
	switch ch {
	case types.LedRed:
		c.color.Red = comp
	case types.LedGreen:
		c.color.Green = comp
	case types.LedBlue:
		c.color.Blue = comp
	}
	return nil
}

// GetChannel reports one channel's state. An invalid channel reads as
// OFF; queries never error.
func (c *Controller) GetChannel(ch types.LedChannel) types.LedState {
	if !channelValid(ch) {
		return types.LedOff
	}
	return c.states[ch]
}

// SetColor binarises each component (nonzero means ON) onto its channel
// and stores the caller's value verbatim. Read-back returns exactly what
// was written here, not a normalised reconstruction.
func (c *Controller) SetColor(color *types.RGBColor) error {
	if color == nil {
		return errcode.NullArgument
	}
	c.setHardware(types.LedRed, binarise(color.Red))
	c.setHardware(types.LedGreen, binarise(color.Green))
	c.setHardware(types.LedBlue, binarise(color.Blue))
	c.color = *color
	return nil
}

func binarise(comp uint8) types.LedState {
	if comp > 0 {
		return types.LedOn
	}
	return types.LedOff
}

// GetColor copies the stored composite color into out.
func (c *Controller) GetColor(out *types.RGBColor) error {
	if out == nil {
		return errcode.NullArgument
	}
	*out = c.color
	return nil
}

// AllOff turns every channel off (black).
func (c *Controller) AllOff() error {
	black := types.ColorBlack
	return c.SetColor(&black)
}

// AllOn turns every channel on (white).
func (c *Controller) AllOn() error {
	white := types.ColorWhite
	return c.SetColor(&white)
}

// Presets.

func (c *Controller) Red() error {
	v := types.ColorRed
	return c.SetColor(&v)
}

func (c *Controller) Green() error {
	v := types.ColorGreen
	return c.SetColor(&v)
}

func (c *Controller) Blue() error {
	v := types.ColorBlue
	return c.SetColor(&v)
}

func (c *Controller) Yellow() error {
	v := types.ColorYellow
	return c.SetColor(&v)
}

func (c *Controller) Magenta() error {
	v := types.ColorMagenta
	return c.SetColor(&v)
}

func (c *Controller) Cyan() error {
	v := types.ColorCyan
	return c.SetColor(&v)
}
