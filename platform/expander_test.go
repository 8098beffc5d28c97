package platform

import (
	"testing"

	"boardio-go/hal"
)

// fakeI2C emulates the MCP23017 register file.
type fakeI2C struct {
	regs map[uint8]uint8
}

func newFakeI2C() *fakeI2C { return &fakeI2C{regs: map[uint8]uint8{}} }

func (f *fakeI2C) ReadRegister(addr uint8, r uint8, buf []byte) error {
	buf[0] = f.regs[r]
	return nil
}

func (f *fakeI2C) WriteRegister(addr uint8, r uint8, buf []byte) error {
	f.regs[r] = buf[0]
	return nil
}

func (f *fakeI2C) Tx(addr uint16, w, r []byte) error {
	if len(r) > 0 {
		return f.ReadRegister(uint8(addr), w[0], r)
	}
	return f.WriteRegister(uint8(addr), w[0], w[1:])
}

func TestExpanderRange(t *testing.T) {
	e := NewExpander(newFakeI2C(), 0x20)
	if _, ok := e.ByNumber(-1); ok {
		t.Fatal("negative line must not resolve")
	}
	if _, ok := e.ByNumber(16); ok {
		t.Fatal("line 16 must not resolve")
	}
	if _, ok := e.ByNumber(15); !ok {
		t.Fatal("line 15 should resolve")
	}
}

func TestExpanderInputPullup(t *testing.T) {
	i2c := newFakeI2C()
	e := NewExpander(i2c, 0x20)

	p, _ := e.ByNumber(3)
	if err := p.Configure(hal.ModeInputPullup); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if i2c.regs[regIODIRA]&0x08 == 0 {
		t.Fatal("IODIRA bit 3 should be set for input")
	}
	if i2c.regs[regGPPUA]&0x08 == 0 {
		t.Fatal("GPPUA bit 3 should be set for pull-up")
	}

	i2c.regs[regGPIOA] = 0x08
	if p.Read() != hal.High {
		t.Fatal("line 3 should read HIGH")
	}
	i2c.regs[regGPIOA] = 0x00
	if p.Read() != hal.Low {
		t.Fatal("line 3 should read LOW")
	}
}

func TestExpanderOutput(t *testing.T) {
	i2c := newFakeI2C()
	i2c.regs[regIODIRA] = 0xFF // power-on default: all inputs
	e := NewExpander(i2c, 0x20)

	p, _ := e.ByNumber(0)
	if err := p.Configure(hal.ModeOutputOpenDrain); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if i2c.regs[regIODIRA]&0x01 != 0 {
		t.Fatal("IODIRA bit 0 should be cleared for output")
	}
	if i2c.regs[regOLATA]&0x01 == 0 {
		t.Fatal("latch should idle HIGH before the driver is enabled")
	}

	p.Write(hal.Low)
	if i2c.regs[regOLATA]&0x01 != 0 {
		t.Fatal("Write(Low) should clear the latch bit")
	}
	p.Write(hal.High)
	if i2c.regs[regOLATA]&0x01 == 0 {
		t.Fatal("Write(High) should set the latch bit")
	}
}

func TestExpanderPortB(t *testing.T) {
	i2c := newFakeI2C()
	e := NewExpander(i2c, 0x20)

	p, _ := e.ByNumber(9) // port B, bit 1
	if err := p.Configure(hal.ModeInputPullup); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if i2c.regs[regIODIRA+1]&0x02 == 0 || i2c.regs[regGPPUA+1]&0x02 == 0 {
		t.Fatal("port B registers not addressed for line 9")
	}
}

func TestSimPinDefaults(t *testing.T) {
	s := NewSim()
	p := s.Pin(4)
	_ = p.Configure(hal.ModeInputPullup)
	if p.Read() != hal.High {
		t.Fatal("pulled-up input should idle HIGH")
	}
	p.SetLevel(hal.Low)
	if p.Read() != hal.Low {
		t.Fatal("SetLevel should drive the line")
	}
	if again := s.Pin(4); again != p {
		t.Fatal("ByNumber must return the same pin instance")
	}
}
