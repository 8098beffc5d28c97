package types

// BoardConfig is supplied on the "config/board" bus topic.
// The pin assignments are fixed at startup; there is no hot-plug.
type BoardConfig struct {
	RGB    RGBConfig    `json:"rgb"`
	Keypad KeypadConfig `json:"keypad"`

	// TickMs is the classifier sampling period. Clamped to [20,50].
	TickMs int `json:"tick_ms,omitempty"`
}

// RGBConfig binds the three channels to pins, in channel order.
type RGBConfig struct {
	RedPin   int `json:"red_pin"`
	GreenPin int `json:"green_pin"`
	BluePin  int `json:"blue_pin"`
}

// KeypadConfig binds the six keys to pins, in key order ("key1".."key6").
type KeypadConfig struct {
	Pins [6]int `json:"pins"`
}
