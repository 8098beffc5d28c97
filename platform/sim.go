// Package platform supplies concrete hal.PinFactory implementations:
// a host-side simulation, the RP2 on-chip pins, and an MCP23017 I²C
// expander bank.
package platform

import (
	"sync"

	"boardio-go/hal"
)

// Sim is a simulated pin bank for host tests and the console harness.
// Inputs idle at the pulled-up level until driven with SetLevel.
type Sim struct {
	mu   sync.Mutex
	pins map[int]*SimPin
}

func NewSim() *Sim {
	return &Sim{pins: map[int]*SimPin{}}
}

// ByNumber returns the simulated pin, creating it on first use.
func (s *Sim) ByNumber(n int) (hal.Pin, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pins[n]
	if !ok {
		p = &SimPin{num: n, level: hal.High}
		s.pins[n] = p
	}
	return p, true
}

// Pin is ByNumber without the interface wrapping, for harness code that
// wants to drive levels directly.
func (s *Sim) Pin(n int) *SimPin {
	p, _ := s.ByNumber(n)
	return p.(*SimPin)
}

type SimPin struct {
	mu    sync.Mutex
	num   int
	mode  hal.PinMode
	level hal.Level
}

func (p *SimPin) Configure(mode hal.PinMode) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode = mode
	if mode == hal.ModeInputPullup {
		p.level = hal.High
	}
	return nil
}

func (p *SimPin) Write(level hal.Level) {
	p.mu.Lock()
	p.level = level
	p.mu.Unlock()
}

func (p *SimPin) Read() hal.Level {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

func (p *SimPin) Number() int { return p.num }

// SetLevel drives the line externally, e.g. to simulate a key press on
// a pulled-up input.
func (p *SimPin) SetLevel(level hal.Level) {
	p.mu.Lock()
	p.level = level
	p.mu.Unlock()
}
