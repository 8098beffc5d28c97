package platform

import (
	"sync"

	"tinygo.org/x/drivers"

	"boardio-go/errcode"
	"boardio-go/hal"
)

// MCP23017 register map, BANK=0 addressing.
const (
	regIODIRA = 0x00
	regGPPUA  = 0x0C
	regGPIOA  = 0x12
	regOLATA  = 0x14
)

// Expander is a 16-line MCP23017 GPIO bank on an I²C bus. Lines 0..7
// map to port A, 8..15 to port B (each port's registers sit one above
// the A register).
type Expander struct {
	mu   sync.Mutex
	bus  drivers.I2C
	addr uint8
}

// NewExpander wraps a device at addr (0x20..0x27) on bus.
func NewExpander(bus drivers.I2C, addr uint8) *Expander {
	return &Expander{bus: bus, addr: addr}
}

func (e *Expander) ByNumber(n int) (hal.Pin, bool) {
	if n < 0 || n > 15 {
		return nil, false
	}
	return &expanderPin{exp: e, num: n}, true
}

// port returns the register offset (0 for A, 1 for B) and the bit mask
// of line n.
func port(n int) (uint8, uint8) {
	if n < 8 {
		return 0, 1 << uint(n)
	}
	return 1, 1 << uint(n-8)
}

func (e *Expander) readReg(reg uint8) (uint8, error) {
	var buf [1]byte
	if err := e.bus.Tx(uint16(e.addr), []byte{reg}, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (e *Expander) writeReg(reg uint8, v uint8) error {
	return e.bus.Tx(uint16(e.addr), []byte{reg, v}, nil)
}

// updateReg sets or clears mask bits of reg.
func (e *Expander) updateReg(reg uint8, mask uint8, set bool) error {
	v, err := e.readReg(reg)
	if err != nil {
		return err
	}
	if set {
		v |= mask
	} else {
		v &^= mask
	}
	return e.writeReg(reg, v)
}

type expanderPin struct {
	exp *Expander
	num int
}

func (p *expanderPin) Configure(mode hal.PinMode) error {
	off, mask := port(p.num)
	e := p.exp
	e.mu.Lock()
	defer e.mu.Unlock()

	switch mode {
	case hal.ModeInputPullup:
		if err := e.updateReg(regIODIRA+off, mask, true); err != nil {
			return err
		}
		return e.updateReg(regGPPUA+off, mask, true)
	case hal.ModeOutputOpenDrain:
		// The MCP23017 drives push-pull only; an active-low output is
		// electrically equivalent for the indicator. Park the latch at
		// the idle HIGH level before enabling the driver.
		if err := e.updateReg(regOLATA+off, mask, true); err != nil {
			return err
		}
		return e.updateReg(regIODIRA+off, mask, false)
	}
	return errcode.InvalidParams
}

func (p *expanderPin) Write(level hal.Level) {
	off, mask := port(p.num)
	e := p.exp
	e.mu.Lock()
	defer e.mu.Unlock()
	_ = e.updateReg(regOLATA+off, mask, level == hal.High)
}

func (p *expanderPin) Read() hal.Level {
	off, mask := port(p.num)
	e := p.exp
	e.mu.Lock()
	defer e.mu.Unlock()
	v, err := e.readReg(regGPIOA + off)
	if err != nil {
		return hal.High // pulled-up idle on a failed read
	}
	if v&mask != 0 {
		return hal.High
	}
	return hal.Low
}

func (p *expanderPin) Number() int { return p.num }
