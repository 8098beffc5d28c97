package board

import (
	"boardio-go/bus"
	"boardio-go/types"
)

// Topic layout, the contract for every bus client:
//
//	config/board                                   retained BoardConfig
//	board/state                                    retained BoardState
//	board/cap/<kind>/<name>/info                   retained types.Info
//	board/cap/<kind>/<name>/status                 retained CapabilityStatus
//	board/cap/rgb/indicator/value                  retained RGBValue
//	board/cap/button/<key>/event                   ButtonEvent
//	board/cap/<kind>/<name>/control/<verb>         request/reply

const indicatorName = "indicator"

func topicConfig() bus.Topic { return bus.T("config", "board") }
func topicState() bus.Topic  { return bus.T("board", "state") }

func ctrlWildcard() bus.Topic {
	return bus.T("board", "cap", "+", "+", "control", "+")
}

func capInfo(kind types.Kind, name string) bus.Topic {
	return bus.T("board", "cap", string(kind), name, "info")
}

func capStatus(kind types.Kind, name string) bus.Topic {
	return bus.T("board", "cap", string(kind), name, "status")
}

func capValue(kind types.Kind, name string) bus.Topic {
	return bus.T("board", "cap", string(kind), name, "value")
}

func capEvent(kind types.Kind, name string) bus.Topic {
	return bus.T("board", "cap", string(kind), name, "event")
}

// Control builds the control topic for a capability verb; exported for
// bus clients (harnesses, demo mains).
func Control(kind types.Kind, name, verb string) bus.Topic {
	return bus.T("board", "cap", string(kind), name, "control", verb)
}
