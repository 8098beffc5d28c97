// Package hal holds the narrow GPIO contract the board drivers consume.
// Concrete providers live in package platform; tests use local fakes.
package hal

// Level is a two-valued electrical signal.
type Level uint8

const (
	Low Level = iota
	High
)

func (l Level) String() string {
	if l == High {
		return "high"
	}
	return "low"
}

// PinMode covers the two configurations this board needs: open-drain
// output for the indicator and pulled-up input for the keys.
type PinMode uint8

const (
	ModeOutputOpenDrain PinMode = iota
	ModeInputPullup
)

// Pin is one GPIO line.
type Pin interface {
	Configure(mode PinMode) error
	Write(level Level)
	Read() Level
	Number() int
}

// PinFactory supplies GPIO pins by the configured number scheme.
type PinFactory interface {
	ByNumber(n int) (Pin, bool)
}
