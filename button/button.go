// Package button turns periodic raw level samples into discrete key
// events: down, up, double click, long press, and continuous (auto
// repeat) while held. One Engine services any number of keys from a
// single Process tick.
//
// All timing is expressed in ticks of the caller's Process cadence.
// At the recommended 20ms tick the defaults below give: 40ms debounce,
// 1s long press, a 300ms double-click window, and a 100ms continuous
// repeat interval.
package button

import (
	"boardio-go/hal"
)

// Timing thresholds, in Process ticks.
const (
	debounceTicks   = 2  // consecutive samples to accept a level change
	longTicks       = 50 // held this long classifies a long press
	doubleWindow    = 15 // release-to-press window for a double click
	continuousEvery = 5  // repeat interval once past the long threshold
)

// Event is a classified key event, and doubles as the attach selector.
type Event uint8

const (
	EventNone Event = iota
	EventDown
	EventUp
	EventDouble
	EventLong
	EventLongFree
	EventContinuous
	EventContinuousFree
	EventAll // attach selector only: matches every event
)

func (e Event) String() string {
	switch e {
	case EventDown:
		return "down"
	case EventUp:
		return "up"
	case EventDouble:
		return "double"
	case EventLong:
		return "long"
	case EventLongFree:
		return "long_free"
	case EventContinuous:
		return "continuous"
	case EventContinuousFree:
		return "continuous_free"
	case EventAll:
		return "all"
	}
	return "none"
}

// LevelReader samples the raw electrical level of a key's line.
type LevelReader func() hal.Level

// Callback is invoked synchronously from Process when its event matches.
type Callback func(b *Button)

type attachment struct {
	event Event
	cb    Callback
}

// Button is one classified key. Instances are created through an Engine
// and stepped only by its Process tick.
type Button struct {
	name   string
	read   LevelReader
	active hal.Level

	attachments []attachment

	pressed      bool  // debounced logical state
	rawCount     uint8 // consecutive samples differing from pressed
	holdTicks    int
	releaseTicks int
	longFired    bool
	contFired    bool
	waitDouble   bool
	lastEvent    Event
}

func (b *Button) Name() string { return b.name }

// Attach registers cb for ev. Registrations are additive: attaching
// twice for the same event runs both callbacks, in attach order.
func (b *Button) Attach(ev Event, cb Callback) {
	if cb == nil {
		return
	}
	b.attachments = append(b.attachments, attachment{event: ev, cb: cb})
}

// State reports the debounced instantaneous state: EventDown while the
// key is held, EventNone otherwise.
func (b *Button) State() Event {
	if b.pressed {
		return EventDown
	}
	return EventNone
}

// Event returns the most recently classified event.
func (b *Button) Event() Event { return b.lastEvent }

func (b *Button) emit(ev Event) {
	b.lastEvent = ev
	for _, a := range b.attachments {
		if a.event == ev || a.event == EventAll {
			a.cb(b)
		}
	}
}

func (b *Button) onPress() {
	b.holdTicks = 0
	if b.waitDouble {
		b.waitDouble = false
		b.emit(EventDouble)
		return
	}
	b.emit(EventDown)
}

func (b *Button) onRelease() {
	switch {
	case b.contFired:
		b.emit(EventContinuousFree)
	case b.longFired:
		b.emit(EventLongFree)
	default:
		// Short press: hold the up event until the double-click window
		// expires, so a quick second press classifies as a double.
		b.waitDouble = true
		b.releaseTicks = 0
	}
	b.longFired = false
	b.contFired = false
}

// step advances the state machine by one tick.
func (b *Button) step() {
	raw := b.read() == b.active
	if raw != b.pressed {
		b.rawCount++
		if b.rawCount >= debounceTicks {
			b.pressed = raw
			b.rawCount = 0
			if raw {
				b.onPress()
			} else {
				b.onRelease()
			}
		}
	} else {
		b.rawCount = 0
	}

	if b.pressed {
		b.holdTicks++
		if !b.longFired {
			if b.holdTicks >= longTicks {
				b.longFired = true
				b.emit(EventLong)
			}
		} else if held := b.holdTicks - longTicks; held > 0 && held%continuousEvery == 0 {
			b.contFired = true
			b.emit(EventContinuous)
		}
		return
	}

	if b.waitDouble {
		b.releaseTicks++
		if b.releaseTicks >= doubleWindow {
			b.waitDouble = false
			b.emit(EventUp)
		}
	}
}

// Engine owns the registered keys and drives them from one global tick.
type Engine struct {
	buttons []*Button
}

func NewEngine() *Engine { return &Engine{} }

// Create registers a key sampled through read, considered pressed while
// the line sits at active.
func (e *Engine) Create(name string, read LevelReader, active hal.Level) *Button {
	b := &Button{name: name, read: read, active: active, lastEvent: EventNone}
	e.buttons = append(e.buttons, b)
	return b
}

// Delete removes b from the engine and clears its attachments.
func (e *Engine) Delete(b *Button) {
	for i, x := range e.buttons {
		if x == b {
			e.buttons = append(e.buttons[:i], e.buttons[i+1:]...)
			break
		}
	}
	b.attachments = nil
}

// Process samples and steps every registered key once. Call it at a
// bounded, roughly fixed period from a single goroutine; callbacks run
// synchronously inside it.
func (e *Engine) Process() {
	for _, b := range e.buttons {
		b.step()
	}
}

// Len reports the number of registered keys.
func (e *Engine) Len() int { return len(e.buttons) }
