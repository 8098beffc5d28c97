// Command boardtest runs the board service against simulated pins and
// exposes the old firmware console commands (led, color, state, ...) on
// stdin, plus press/release to poke the simulated keys.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/shlex"

	"boardio-go/bus"
	"boardio-go/hal"
	"boardio-go/platform"
	"boardio-go/services/board"
	"boardio-go/types"
)

var cfg = types.BoardConfig{
	RGB:    types.RGBConfig{RedPin: 6, GreenPin: 7, BluePin: 5},
	Keypad: types.KeypadConfig{Pins: [6]int{20, 21, 22, 23, 24, 25}},
	TickMs: 20,
}

func main() {
	b := bus.NewBus(32)
	sim := platform.NewSim()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go board.Run(ctx, b.NewConnection("board"), sim)

	ui := b.NewConnection("console")
	ui.Publish(ui.NewMessage(bus.T("config", "board"), cfg, true))
	if !waitReady(ui, 3*time.Second) {
		fmt.Println("board service did not come up")
		os.Exit(1)
	}

	// Echo every classified key event.
	evSub := ui.Subscribe(bus.T("board", "cap", "button", "+", "event"))
	go func() {
		for m := range evSub.Channel() {
			if ev, ok := m.Payload.(types.ButtonEvent); ok {
				fmt.Printf("[event] %s: %s\n", ev.Name, ev.Event)
			}
		}
	}()

	fmt.Println("boardtest console; 'help' lists commands")
	sc := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("board> ")
		if !sc.Scan() {
			return
		}
		args, err := shlex.Split(sc.Text())
		if err != nil {
			fmt.Println("parse error:", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" || args[0] == "quit" {
			return
		}
		dispatch(ui, sim, args)
	}
}

func waitReady(c *bus.Connection, d time.Duration) bool {
	sub := c.Subscribe(bus.T("board", "state"))
	defer c.Unsubscribe(sub)

	dead := time.After(d)
	for {
		select {
		case m := <-sub.Channel():
			if st, ok := m.Payload.(types.BoardState); ok && st.Level == "ready" {
				return true
			}
		case <-dead:
			return false
		}
	}
}

func dispatch(ui *bus.Connection, sim *platform.Sim, args []string) {
	switch args[0] {
	case "help":
		usage()

	case "led":
		// led <red|green|blue|all> <on|off>
		if len(args) < 3 {
			fmt.Println("usage: led <red|green|blue|all> <on|off>")
			return
		}
		state := types.LedOff
		if args[2] == "on" {
			state = types.LedOn
		}
		if args[1] == "all" {
			verb := "all_off"
			if state == types.LedOn {
				verb = "all_on"
			}
			show(request(ui, board.Control(types.KindRGB, "indicator", verb), nil))
			return
		}
		ch, ok := channelByName(args[1])
		if !ok {
			fmt.Println("invalid channel:", args[1])
			return
		}
		show(request(ui, board.Control(types.KindRGB, "indicator", "set_channel"),
			types.RGBSetChannel{Channel: ch, State: state}))

	case "color":
		// color <name> | color <r> <g> <b>
		switch len(args) {
		case 2:
			show(request(ui, board.Control(types.KindRGB, "indicator", "preset"),
				types.RGBPreset{Name: args[1]}))
		case 4:
			col, err := parseColor(args[1:4])
			if err != nil {
				fmt.Println(err)
				return
			}
			show(request(ui, board.Control(types.KindRGB, "indicator", "set_color"),
				types.RGBSetColor{Color: col}))
		default:
			fmt.Println("usage: color <name> | color <r> <g> <b>")
		}

	case "get":
		reply := request(ui, board.Control(types.KindRGB, "indicator", "get_color"), nil)
		if val, ok := reply.(types.RGBValue); ok {
			fmt.Printf("color: R=%d G=%d B=%d\n", val.Color.Red, val.Color.Green, val.Color.Blue)
			return
		}
		show(reply)

	case "state", "event":
		if len(args) < 2 {
			fmt.Printf("usage: %s <key1..key6>\n", args[0])
			return
		}
		reply := request(ui, board.Control(types.KindButton, args[1], args[0]), nil)
		if q, ok := reply.(types.ButtonQueryReply); ok {
			fmt.Printf("%s %s: %s\n", q.Name, args[0], q.Value)
			return
		}
		show(reply)

	case "press":
		// press <key> [hold_ms]
		if len(args) < 2 {
			fmt.Println("usage: press <key1..key6> [hold_ms]")
			return
		}
		pin, ok := keyPin(args[1])
		if !ok {
			fmt.Println("unknown key:", args[1])
			return
		}
		holdMs := 100
		if len(args) > 2 {
			if v, err := strconv.Atoi(args[2]); err == nil {
				holdMs = v
			}
		}
		sim.Pin(pin).SetLevel(hal.Low)
		time.AfterFunc(time.Duration(holdMs)*time.Millisecond, func() {
			sim.Pin(pin).SetLevel(hal.High)
		})

	case "release":
		if len(args) < 2 {
			fmt.Println("usage: release <key1..key6>")
			return
		}
		if pin, ok := keyPin(args[1]); ok {
			sim.Pin(pin).SetLevel(hal.High)
		}

	default:
		fmt.Println("unknown command:", args[0])
		usage()
	}
}

func usage() {
	fmt.Println(`commands:
  led <red|green|blue|all> <on|off>
  color <red|green|blue|yellow|magenta|cyan|white|black>
  color <r> <g> <b>
  get
  state <key1..key6>
  event <key1..key6>
  press <key1..key6> [hold_ms]
  release <key1..key6>
  exit`)
}

func request(c *bus.Connection, topic bus.Topic, payload any) any {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	reply, err := c.RequestWait(ctx, c.NewMessage(topic, payload, false))
	if err != nil {
		return types.ErrorReply{OK: false, Error: err.Error()}
	}
	return reply.Payload
}

func show(reply any) {
	switch r := reply.(type) {
	case types.OKReply:
		fmt.Println("ok")
	case types.ErrorReply:
		fmt.Println("error:", r.Error)
	default:
		fmt.Printf("%+v\n", r)
	}
}

func channelByName(name string) (types.LedChannel, bool) {
	switch name {
	case "red":
		return types.LedRed, true
	case "green":
		return types.LedGreen, true
	case "blue":
		return types.LedBlue, true
	}
	return 0, false
}

func parseColor(parts []string) (types.RGBColor, error) {
	var comps [3]uint8
	for i, s := range parts {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 || v > 255 {
			return types.RGBColor{}, fmt.Errorf("component %q out of range 0..255", s)
		}
		comps[i] = uint8(v)
	}
	return types.RGBColor{Red: comps[0], Green: comps[1], Blue: comps[2]}, nil
}

func keyPin(name string) (int, bool) {
	for i, n := range []string{"key1", "key2", "key3", "key4", "key5", "key6"} {
		if n == name {
			return cfg.Keypad.Pins[i], true
		}
	}
	return 0, false
}
