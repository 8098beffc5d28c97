package types

// LedChannel selects one of the three indicator channels by ordinal.
type LedChannel uint8

const (
	LedRed LedChannel = iota
	LedGreen
	LedBlue
	LedChannelMax // count sentinel, not a channel
)

func (c LedChannel) String() string {
	switch c {
	case LedRed:
		return "red"
	case LedGreen:
		return "green"
	case LedBlue:
		return "blue"
	}
	return "invalid"
}

// LedState is the binary electrical-independent state of one channel.
type LedState uint8

const (
	LedOff LedState = iota
	LedOn
)

func (s LedState) String() string {
	if s == LedOn {
		return "on"
	}
	return "off"
}

// RGBColor is the composite color as last written by the caller.
// Components are conceptually 0..255 but only zero/nonzero matters to the
// channels; the stored value is returned verbatim on read-back.
type RGBColor struct {
	Red   uint8 `json:"red"`
	Green uint8 `json:"green"`
	Blue  uint8 `json:"blue"`
}

// Fully saturated presets.
var (
	ColorBlack   = RGBColor{0, 0, 0}
	ColorWhite   = RGBColor{255, 255, 255}
	ColorRed     = RGBColor{255, 0, 0}
	ColorGreen   = RGBColor{0, 255, 0}
	ColorBlue    = RGBColor{0, 0, 255}
	ColorYellow  = RGBColor{255, 255, 0}
	ColorMagenta = RGBColor{255, 0, 255}
	ColorCyan    = RGBColor{0, 255, 255}
)

// ---- RGB capability payloads ----

type RGBInfo struct {
	RedPin   int `json:"red_pin"`
	GreenPin int `json:"green_pin"`
	BluePin  int `json:"blue_pin"`
}

// RGBValue is published under board/cap/.../value (retained).
type RGBValue struct {
	Color RGBColor `json:"color"`
}

// Control payloads
type RGBSetChannel struct {
	Channel LedChannel `json:"channel"`
	State   LedState   `json:"state"`
}

type RGBSetColor struct {
	Color RGBColor `json:"color"`
}

type RGBPreset struct {
	Name string `json:"name"` // red, green, blue, yellow, magenta, cyan, white, black
}
