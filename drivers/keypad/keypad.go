// Package keypad exposes the board's six momentary keys as a fixed,
// name-indexed registry over the button classifier. Names "key1".."key6"
// are assigned in pin order at Init and never change.
package keypad

import (
	"boardio-go/button"
	"boardio-go/errcode"
	"boardio-go/hal"
)

// KeyCount is the fixed size of the key bank.
const KeyCount = 6

// The keys short their lines to ground, so pressed means electrical LOW
// behind the pull-up.
const triggerLevel = hal.Low

var keyNames = [KeyCount]string{"key1", "key2", "key3", "key4", "key5", "key6"}

// Names lists the fixed key names in registry order.
func Names() []string { return keyNames[:] }

// Trace receives every classified event of every key (the default
// diagnostic attachment of Init).
type Trace func(name string, ev button.Event)

// Registry owns the six key instances. Single-threaded: Process and all
// queries are expected from one goroutine; concurrent Process calls are
// a caller error.
type Registry struct {
	pins   [KeyCount]hal.Pin
	eng    *button.Engine
	keys   [KeyCount]*button.Button
	trace  Trace
	inited bool
}

// New binds a registry to its six key pins, in name order. A nil trace
// falls back to console diagnostics.
func New(pins [KeyCount]hal.Pin, trace Trace) *Registry {
	if trace == nil {
		trace = func(name string, ev button.Event) {
			println("[keypad]", name, ev.String())
		}
	}
	return &Registry{pins: pins, eng: button.NewEngine(), trace: trace}
}

// Init configures every key pin as a pulled-up input, creates the six
// classifier instances and attaches the diagnostic trace to the full
// event set of each. All instances are created together; there is no
// partial registration.
func (r *Registry) Init() error {
	if r.inited {
		return nil
	}
	for i := range r.pins {
		if err := r.pins[i].Configure(hal.ModeInputPullup); err != nil {
			return err
		}
	}
	for i := range r.keys {
		pin := r.pins[i]
		name := keyNames[i]
		b := r.eng.Create(name, pin.Read, triggerLevel)
		b.Attach(button.EventAll, func(btn *button.Button) {
			r.trace(btn.Name(), btn.Event())
		})
		r.keys[i] = b
	}
	r.inited = true
	return nil
}

// Deinit deletes all instances, clearing their attachments.
func (r *Registry) Deinit() error {
	for i, b := range r.keys {
		if b != nil {
			r.eng.Delete(b)
			r.keys[i] = nil
		}
	}
	r.inited = false
	return nil
}

// Lookup resolves a key name by exact, case-sensitive match. A miss is
// an answer, not an error.
func (r *Registry) Lookup(name string) (*button.Button, bool) {
	if name == "" {
		return nil, false
	}
	for i, b := range r.keys {
		if b != nil && keyNames[i] == name {
			return b, true
		}
	}
	return nil, false
}

// State reports the named key's debounced state, or EventNone for any
// unresolved name.
func (r *Registry) State(name string) button.Event {
	if b, ok := r.Lookup(name); ok {
		return b.State()
	}
	return button.EventNone
}

// Event reports the named key's last classified event, or EventNone for
// any unresolved name.
func (r *Registry) Event(name string) button.Event {
	if b, ok := r.Lookup(name); ok {
		return b.Event()
	}
	return button.EventNone
}

// Attach registers cb for ev on the named key. Registrations append;
// earlier callbacks keep firing first.
func (r *Registry) Attach(name string, ev button.Event, cb button.Callback) error {
	b, ok := r.Lookup(name)
	if !ok || cb == nil {
		return errcode.NotFound
	}
	b.Attach(ev, cb)
	return nil
}

// Process forwards one sampling tick to the classifier. The owning
// schedule must call this at a bounded interval (20-50ms recommended);
// missed ticks degrade event detection but never corrupt state.
func (r *Registry) Process() {
	r.eng.Process()
}
