package types

// ButtonInfo is the retained info detail for one key.
type ButtonInfo struct {
	Name string `json:"name"`
	Pin  int    `json:"pin"`
}

// ButtonEvent is published (non-retained) whenever a key classifies an event.
type ButtonEvent struct {
	Name  string `json:"name"`
	Event string `json:"event"` // down, up, double, long, long_free, continuous, continuous_free
	TS    int64  `json:"ts_ms"`
}

// ButtonQueryReply answers the "state" and "event" control verbs.
type ButtonQueryReply struct {
	OK    bool   `json:"ok"`
	Name  string `json:"name"`
	Value string `json:"value"` // event code string, "none" when idle/unknown
}
