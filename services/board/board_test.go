package board

import (
	"context"
	"testing"
	"time"

	"boardio-go/bus"
	"boardio-go/hal"
	"boardio-go/platform"
	"boardio-go/types"
)

func testConfig() types.BoardConfig {
	return types.BoardConfig{
		RGB:    types.RGBConfig{RedPin: 1, GreenPin: 2, BluePin: 3},
		Keypad: types.KeypadConfig{Pins: [6]int{10, 11, 12, 13, 14, 15}},
		TickMs: 20,
	}
}

// startService boots the service against simulated pins and waits until
// it reports ready.
func startService(t *testing.T) (*bus.Bus, *platform.Sim, context.CancelFunc) {
	t.Helper()

	b := bus.NewBus(32)
	sim := platform.NewSim()
	ctx, cancel := context.WithCancel(context.Background())

	go Run(ctx, b.NewConnection("board"), sim)

	ui := b.NewConnection("test-setup")
	ui.Publish(ui.NewMessage(bus.T("config", "board"), testConfig(), true))

	stateSub := ui.Subscribe(bus.T("board", "state"))
	defer ui.Unsubscribe(stateSub)
	deadline := time.After(2 * time.Second)
	for {
		select {
		case m := <-stateSub.Channel():
			if st, ok := m.Payload.(types.BoardState); ok && st.Level == "ready" {
				return b, sim, cancel
			}
		case <-deadline:
			cancel()
			t.Fatal("service never became ready")
		}
	}
}

func request(t *testing.T, c *bus.Connection, topic bus.Topic, payload any) *bus.Message {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	reply, err := c.RequestWait(ctx, c.NewMessage(topic, payload, false))
	if err != nil {
		t.Fatalf("request %v: %v", topic, err)
	}
	return reply
}

func TestSetColorVerbatimOverBus(t *testing.T) {
	b, _, cancel := startService(t)
	defer cancel()
	ui := b.NewConnection("ui")

	reply := request(t, ui, Control(types.KindRGB, "indicator", "set_color"),
		types.RGBSetColor{Color: types.RGBColor{Red: 10}})
	if ok, _ := reply.Payload.(types.OKReply); !ok.OK {
		t.Fatalf("set_color reply: %v", reply.Payload)
	}

	reply = request(t, ui, Control(types.KindRGB, "indicator", "get_color"), nil)
	val, ok := reply.Payload.(types.RGBValue)
	if !ok || val.Color != (types.RGBColor{Red: 10}) {
		t.Fatalf("get_color: want verbatim {10 0 0}, got %v", reply.Payload)
	}

	reply = request(t, ui, Control(types.KindRGB, "indicator", "get_channel"),
		types.RGBSetChannel{Channel: types.LedRed})
	ch, ok := reply.Payload.(types.RGBSetChannel)
	if !ok || ch.State != types.LedOn {
		t.Fatalf("get_channel red: want on, got %v", reply.Payload)
	}
}

func TestInvalidChannelOverBus(t *testing.T) {
	b, _, cancel := startService(t)
	defer cancel()
	ui := b.NewConnection("ui")

	reply := request(t, ui, Control(types.KindRGB, "indicator", "set_channel"),
		types.RGBSetChannel{Channel: 7, State: types.LedOn})
	er, ok := reply.Payload.(types.ErrorReply)
	if !ok || er.Error != "invalid_channel" {
		t.Fatalf("want invalid_channel error reply, got %v", reply.Payload)
	}
}

func TestPresetAndRetainedValue(t *testing.T) {
	b, _, cancel := startService(t)
	defer cancel()
	ui := b.NewConnection("ui")

	reply := request(t, ui, Control(types.KindRGB, "indicator", "preset"),
		types.RGBPreset{Name: "magenta"})
	if ok, _ := reply.Payload.(types.OKReply); !ok.OK {
		t.Fatalf("preset reply: %v", reply.Payload)
	}

	// The retained value topic reflects the preset.
	sub := ui.Subscribe(bus.T("board", "cap", "rgb", "indicator", "value"))
	defer ui.Unsubscribe(sub)
	select {
	case m := <-sub.Channel():
		val := m.Payload.(types.RGBValue)
		if val.Color != types.ColorMagenta {
			t.Fatalf("retained value: %v", val)
		}
	case <-time.After(time.Second):
		t.Fatal("no retained value delivered")
	}

	reply = request(t, ui, Control(types.KindRGB, "indicator", "preset"),
		types.RGBPreset{Name: "mauve"})
	if er, ok := reply.Payload.(types.ErrorReply); !ok || er.Error != "not_found" {
		t.Fatalf("unknown preset: %v", reply.Payload)
	}
}

func TestKeyPressPublishesEvent(t *testing.T) {
	b, sim, cancel := startService(t)
	defer cancel()
	ui := b.NewConnection("ui")

	sub := ui.Subscribe(bus.T("board", "cap", "button", "key1", "event"))
	defer ui.Unsubscribe(sub)

	sim.Pin(10).SetLevel(hal.Low) // press key1

	select {
	case m := <-sub.Channel():
		ev := m.Payload.(types.ButtonEvent)
		if ev.Name != "key1" || ev.Event != "down" {
			t.Fatalf("event: %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no button event published")
	}

	reply := request(t, ui, Control(types.KindButton, "key1", "state"), nil)
	q := reply.Payload.(types.ButtonQueryReply)
	if q.Value != "down" {
		t.Fatalf("key1 state: %+v", q)
	}
}

func TestButtonQueriesNeverError(t *testing.T) {
	b, _, cancel := startService(t)
	defer cancel()
	ui := b.NewConnection("ui")

	reply := request(t, ui, Control(types.KindButton, "nonexistent", "state"), nil)
	q, ok := reply.Payload.(types.ButtonQueryReply)
	if !ok || !q.OK || q.Value != "none" {
		t.Fatalf("unknown key state: %v", reply.Payload)
	}

	reply = request(t, ui, Control(types.KindButton, "nonexistent", "event"), nil)
	q, ok = reply.Payload.(types.ButtonQueryReply)
	if !ok || !q.OK || q.Value != "none" {
		t.Fatalf("unknown key event: %v", reply.Payload)
	}
}

func TestControlsRejectedBeforeConfig(t *testing.T) {
	b := bus.NewBus(8)
	sim := platform.NewSim()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go Run(ctx, b.NewConnection("board"), sim)
	time.Sleep(50 * time.Millisecond)

	ui := b.NewConnection("ui")
	reply := request(t, ui, Control(types.KindRGB, "indicator", "all_on"), nil)
	er, ok := reply.Payload.(types.ErrorReply)
	if !ok || er.Error != "not_ready" {
		t.Fatalf("want not_ready before config, got %v", reply.Payload)
	}
}
