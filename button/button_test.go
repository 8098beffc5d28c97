package button

import (
	"testing"

	"boardio-go/hal"
)

// line simulates one pulled-up, active-low key line.
type line struct {
	level hal.Level
}

func newLine() *line            { return &line{level: hal.High} }
func (l *line) read() hal.Level { return l.level }
func (l *line) press()          { l.level = hal.Low }
func (l *line) release()        { l.level = hal.High }

func tick(e *Engine, n int) {
	for i := 0; i < n; i++ {
		e.Process()
	}
}

func record(b *Button, into *[]Event) {
	b.Attach(EventAll, func(btn *Button) {
		*into = append(*into, btn.Event())
	})
}

func TestPressReleaseClassifiesDownThenUp(t *testing.T) {
	e := NewEngine()
	l := newLine()
	b := e.Create("key1", l.read, hal.Low)

	var got []Event
	record(b, &got)

	l.press()
	tick(e, debounceTicks)
	if b.State() != EventDown {
		t.Fatalf("state after debounced press: want down, got %v", b.State())
	}
	if len(got) != 1 || got[0] != EventDown {
		t.Fatalf("events after press: %v", got)
	}

	l.release()
	tick(e, debounceTicks)
	if b.State() != EventNone {
		t.Fatalf("state after release: want none, got %v", b.State())
	}

	// The up event is withheld until the double-click window lapses.
	tick(e, doubleWindow)
	if len(got) != 2 || got[1] != EventUp {
		t.Fatalf("events after window: %v", got)
	}
	if b.Event() != EventUp {
		t.Fatalf("last event: want up, got %v", b.Event())
	}
}

func TestGlitchShorterThanDebounceIgnored(t *testing.T) {
	e := NewEngine()
	l := newLine()
	b := e.Create("key1", l.read, hal.Low)

	var got []Event
	record(b, &got)

	l.press()
	tick(e, debounceTicks-1)
	l.release()
	tick(e, doubleWindow+debounceTicks)

	if len(got) != 0 {
		t.Fatalf("glitch produced events: %v", got)
	}
	if b.State() != EventNone {
		t.Fatalf("state after glitch: %v", b.State())
	}
}

func TestLongPressAndRelease(t *testing.T) {
	e := NewEngine()
	l := newLine()
	b := e.Create("key1", l.read, hal.Low)

	var got []Event
	record(b, &got)

	l.press()
	tick(e, debounceTicks+longTicks)
	if len(got) != 2 || got[0] != EventDown || got[1] != EventLong {
		t.Fatalf("events while held long: %v", got)
	}

	l.release()
	tick(e, debounceTicks)
	if got[len(got)-1] != EventLongFree {
		t.Fatalf("release after long press: %v", got)
	}
}

func TestContinuousRepeatWhileHeld(t *testing.T) {
	e := NewEngine()
	l := newLine()
	b := e.Create("key1", l.read, hal.Low)

	var got []Event
	record(b, &got)

	l.press()
	tick(e, debounceTicks+longTicks+3*continuousEvery)

	reps := 0
	for _, ev := range got {
		if ev == EventContinuous {
			reps++
		}
	}
	if reps != 3 {
		t.Fatalf("continuous repeats: want 3, got %d (%v)", reps, got)
	}

	l.release()
	tick(e, debounceTicks)
	if got[len(got)-1] != EventContinuousFree {
		t.Fatalf("release after continuous: %v", got)
	}
}

func TestDoubleClick(t *testing.T) {
	e := NewEngine()
	l := newLine()
	b := e.Create("key1", l.read, hal.Low)

	var got []Event
	record(b, &got)

	l.press()
	tick(e, debounceTicks)
	l.release()
	tick(e, debounceTicks)
	// Second press well inside the window.
	l.press()
	tick(e, debounceTicks)

	if len(got) != 2 || got[0] != EventDown || got[1] != EventDouble {
		t.Fatalf("double click events: %v", got)
	}
}

func TestAttachIsAdditiveAndOrdered(t *testing.T) {
	e := NewEngine()
	l := newLine()
	b := e.Create("key1", l.read, hal.Low)

	var order []int
	b.Attach(EventDown, func(*Button) { order = append(order, 1) })
	b.Attach(EventDown, func(*Button) { order = append(order, 2) })
	b.Attach(EventAll, func(*Button) { order = append(order, 3) })

	l.press()
	tick(e, debounceTicks)

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("callback order: %v", order)
	}
}

func TestNilCallbackIgnored(t *testing.T) {
	e := NewEngine()
	l := newLine()
	b := e.Create("key1", l.read, hal.Low)

	b.Attach(EventDown, nil)
	l.press()
	tick(e, debounceTicks) // must not panic
}

func TestDeleteRemovesFromProcessing(t *testing.T) {
	e := NewEngine()
	l := newLine()
	b := e.Create("key1", l.read, hal.Low)

	var got []Event
	record(b, &got)

	e.Delete(b)
	if e.Len() != 0 {
		t.Fatalf("engine still holds %d keys", e.Len())
	}

	l.press()
	tick(e, debounceTicks+longTicks)
	if len(got) != 0 {
		t.Fatalf("deleted key still produced events: %v", got)
	}
}
