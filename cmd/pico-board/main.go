//go:build rp2040 || rp2350

// Minimal on-target bring-up: start the board service on the RP2 pins,
// cycle the indicator presets once, then echo key events forever.
package main

import (
	"context"
	"time"

	"boardio-go/bus"
	"boardio-go/platform"
	"boardio-go/services/board"
	"boardio-go/types"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("[main] bootstrapping bus ...")

	b := bus.NewBus(8)
	ctx := context.Background()

	go board.Run(ctx, b.NewConnection("board"), platform.RP2Pins{})

	ui := b.NewConnection("ui")
	ui.Publish(ui.NewMessage(bus.T("config", "board"), types.BoardConfig{
		RGB:    types.RGBConfig{RedPin: 2, GreenPin: 3, BluePin: 4},
		Keypad: types.KeypadConfig{Pins: [6]int{10, 11, 12, 13, 14, 15}},
	}, true))

	evSub := ui.Subscribe(bus.T("board", "cap", "button", "+", "event"))
	go func() {
		for m := range evSub.Channel() {
			if ev, ok := m.Payload.(types.ButtonEvent); ok {
				println("[key]", ev.Name, ev.Event)
			}
		}
	}()

	time.Sleep(250 * time.Millisecond)
	for _, name := range []string{"red", "green", "blue", "yellow", "magenta", "cyan", "black"} {
		if _, err := ui.RequestWait(ctx, ui.NewMessage(
			board.Control(types.KindRGB, "indicator", "preset"),
			types.RGBPreset{Name: name}, false)); err != nil {
			println("[main] preset error:", err.Error())
		}
		time.Sleep(300 * time.Millisecond)
	}

	select {}
}
