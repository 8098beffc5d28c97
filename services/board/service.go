// Package board is the bus-facing service that owns the two peripheral
// drivers: the RGB indicator and the keypad registry. It builds both
// from a retained BoardConfig, answers control verbs, and supplies the
// classifier's sampling cadence from its own loop, so `Process` is only
// ever invoked from one goroutine.
package board

import (
	"context"
	"time"

	"boardio-go/bus"
	"boardio-go/button"
	"boardio-go/drivers/keypad"
	"boardio-go/drivers/rgbled"
	"boardio-go/errcode"
	"boardio-go/hal"
	"boardio-go/types"
	"boardio-go/x/mathx"
	"boardio-go/x/timex"
)

// The classifier is tuned for a 20-50ms tick; clamp configs into that.
const (
	minTickMs     = 20
	maxTickMs     = 50
	defaultTickMs = 20
)

type service struct {
	conn *bus.Connection
	pins hal.PinFactory

	rgb  *rgbled.Controller
	keys *keypad.Registry

	ready bool
}

// Run services the board until ctx is cancelled.
func Run(ctx context.Context, conn *bus.Connection, pins hal.PinFactory) {
	s := &service{conn: conn, pins: pins}
	s.loop(ctx)
}

func (s *service) loop(ctx context.Context) {
	cfgSub := s.conn.Subscribe(topicConfig())
	ctrlSub := s.conn.Subscribe(ctrlWildcard())
	defer s.conn.Unsubscribe(cfgSub)
	defer s.conn.Unsubscribe(ctrlSub)

	s.pubState("idle", "awaiting_config")

	var ticker *time.Ticker
	var tickC <-chan time.Time // nil until configured

	for {
		select {
		case <-ctx.Done():
			if ticker != nil {
				ticker.Stop()
			}
			if s.keys != nil {
				_ = s.keys.Deinit()
			}
			if s.rgb != nil {
				_ = s.rgb.Deinit()
			}
			s.pubState("stopped", "context_cancelled")
			return

		case msg := <-cfgSub.Channel():
			cfg, ok := msg.Payload.(types.BoardConfig)
			if !ok {
				s.pubState("error", "config_decode_failed")
				continue
			}
			if err := s.applyConfig(cfg); err != nil {
				s.pubState("error", errcode.Of(err).Error())
				continue
			}
			if ticker != nil {
				ticker.Stop()
			}
			tickMs := cfg.TickMs
			if tickMs == 0 {
				tickMs = defaultTickMs
			}
			tickMs = mathx.Clamp(tickMs, minTickMs, maxTickMs)
			ticker = time.NewTicker(time.Duration(tickMs) * time.Millisecond)
			tickC = ticker.C
			s.ready = true
			s.pubState("ready", "configured")

		case msg := <-ctrlSub.Channel():
			if !s.ready {
				s.replyErr(msg, errcode.NotReady)
				continue
			}
			s.handleControl(msg)

		case <-tickC:
			// Single sampling tick for the whole key bank; callbacks,
			// including the event publication below, run synchronously here.
			s.keys.Process()
		}
	}
}

func (s *service) applyConfig(cfg types.BoardConfig) error {
	if s.ready {
		// The peripheral set is fixed at startup; re-configuration only
		// re-inits the same instances.
		return s.rgb.Init()
	}

	red, ok := s.pins.ByNumber(cfg.RGB.RedPin)
	if !ok {
		return errcode.UnknownPin
	}
	green, ok := s.pins.ByNumber(cfg.RGB.GreenPin)
	if !ok {
		return errcode.UnknownPin
	}
	blue, ok := s.pins.ByNumber(cfg.RGB.BluePin)
	if !ok {
		return errcode.UnknownPin
	}

	var keyPins [keypad.KeyCount]hal.Pin
	for i, n := range cfg.Keypad.Pins {
		p, ok := s.pins.ByNumber(n)
		if !ok {
			return errcode.UnknownPin
		}
		keyPins[i] = p
	}

	s.rgb = rgbled.New(red, green, blue)
	if err := s.rgb.Init(); err != nil {
		return err
	}

	s.keys = keypad.New(keyPins, func(name string, ev button.Event) {
		s.conn.Publish(s.conn.NewMessage(
			capEvent(types.KindButton, name),
			types.ButtonEvent{Name: name, Event: ev.String(), TS: timex.NowMs()},
			false,
		))
	})
	if err := s.keys.Init(); err != nil {
		return err
	}

	// Retained discovery documents.
	s.pubRet(capInfo(types.KindRGB, indicatorName), types.Info{
		SchemaVersion: 1,
		Driver:        "rgbled",
		Detail: types.RGBInfo{
			RedPin:   cfg.RGB.RedPin,
			GreenPin: cfg.RGB.GreenPin,
			BluePin:  cfg.RGB.BluePin,
		},
	})
	s.pubRet(capStatus(types.KindRGB, indicatorName),
		types.CapabilityStatus{Link: types.LinkUp, TS: timex.NowMs()})
	s.pubValue()

	for i, name := range keypad.Names() {
		s.pubRet(capInfo(types.KindButton, name), types.Info{
			SchemaVersion: 1,
			Driver:        "keypad",
			Detail:        types.ButtonInfo{Name: name, Pin: cfg.Keypad.Pins[i]},
		})
		s.pubRet(capStatus(types.KindButton, name),
			types.CapabilityStatus{Link: types.LinkUp, TS: timex.NowMs()})
	}
	return nil
}

func (s *service) handleControl(msg *bus.Message) {
	// board/cap/<kind>/<name>/control/<verb>
	if len(msg.Topic) < 6 {
		s.replyErr(msg, errcode.InvalidTopic)
		return
	}
	kind := types.Kind(msg.Topic[2])
	name := msg.Topic[3]
	verb := msg.Topic[5]

	switch kind {
	case types.KindRGB:
		if name != indicatorName {
			s.replyErr(msg, errcode.NotFound)
			return
		}
		s.handleRGB(msg, verb)
	case types.KindButton:
		s.handleButton(msg, name, verb)
	default:
		s.replyErr(msg, errcode.NotFound)
	}
}

func (s *service) handleRGB(msg *bus.Message, verb string) {
	switch verb {
	case "set_channel":
		p, code := as[types.RGBSetChannel](msg.Payload)
		if code != "" {
			s.replyErr(msg, code)
			return
		}
		if err := s.rgb.SetChannel(p.Channel, p.State); err != nil {
			s.replyErr(msg, errcode.Of(err))
			return
		}
		s.pubValue()
		s.replyOK(msg)

	case "get_channel":
		p, code := as[types.RGBSetChannel](msg.Payload)
		if code != "" {
			s.replyErr(msg, code)
			return
		}
		state := s.rgb.GetChannel(p.Channel)
		if msg.CanReply() {
			s.conn.Reply(msg, types.RGBSetChannel{Channel: p.Channel, State: state}, false)
		}

	case "set_color":
		p, code := as[types.RGBSetColor](msg.Payload)
		if code != "" {
			s.replyErr(msg, code)
			return
		}
		col := p.Color
		if err := s.rgb.SetColor(&col); err != nil {
			s.replyErr(msg, errcode.Of(err))
			return
		}
		s.pubValue()
		s.replyOK(msg)

	case "get_color":
		var col types.RGBColor
		if err := s.rgb.GetColor(&col); err != nil {
			s.replyErr(msg, errcode.Of(err))
			return
		}
		if msg.CanReply() {
			s.conn.Reply(msg, types.RGBValue{Color: col}, false)
		}

	case "all_on":
		_ = s.rgb.AllOn()
		s.pubValue()
		s.replyOK(msg)

	case "all_off":
		_ = s.rgb.AllOff()
		s.pubValue()
		s.replyOK(msg)

	case "preset":
		p, code := as[types.RGBPreset](msg.Payload)
		if code != "" {
			s.replyErr(msg, code)
			return
		}
		if err := s.preset(p.Name); err != nil {
			s.replyErr(msg, errcode.Of(err))
			return
		}
		s.pubValue()
		s.replyOK(msg)

	default:
		s.replyErr(msg, errcode.Unsupported)
	}
}

func (s *service) preset(name string) error {
	switch name {
	case "red":
		return s.rgb.Red()
	case "green":
		return s.rgb.Green()
	case "blue":
		return s.rgb.Blue()
	case "yellow":
		return s.rgb.Yellow()
	case "magenta":
		return s.rgb.Magenta()
	case "cyan":
		return s.rgb.Cyan()
	case "white":
		return s.rgb.AllOn()
	case "black":
		return s.rgb.AllOff()
	}
	return errcode.NotFound
}

func (s *service) handleButton(msg *bus.Message, name, verb string) {
	// Queries never error: unknown names answer with the none sentinel.
	switch verb {
	case "state":
		s.replyQuery(msg, name, s.keys.State(name))
	case "event":
		s.replyQuery(msg, name, s.keys.Event(name))
	default:
		s.replyErr(msg, errcode.Unsupported)
	}
}

func (s *service) replyQuery(msg *bus.Message, name string, ev button.Event) {
	if !msg.CanReply() {
		return
	}
	s.conn.Reply(msg, types.ButtonQueryReply{OK: true, Name: name, Value: ev.String()}, false)
}

// pubValue republishes the retained composite color.
func (s *service) pubValue() {
	var col types.RGBColor
	_ = s.rgb.GetColor(&col)
	s.pubRet(capValue(types.KindRGB, indicatorName), types.RGBValue{Color: col})
}

func (s *service) pubState(level, status string) {
	s.pubRet(topicState(), types.BoardState{Level: level, Status: status, TS: timex.NowMs()})
}

func (s *service) pubRet(t bus.Topic, payload any) {
	s.conn.Publish(s.conn.NewMessage(t, payload, true))
}

func (s *service) replyOK(msg *bus.Message) {
	if msg.CanReply() {
		s.conn.Reply(msg, types.OKReply{OK: true}, false)
	}
}

func (s *service) replyErr(msg *bus.Message, code errcode.Code) {
	if !msg.CanReply() {
		return
	}
	if code == "" {
		code = errcode.Error
	}
	s.conn.Reply(msg, types.ErrorReply{OK: false, Error: string(code)}, false)
}

// as asserts a payload to the concrete value type T. Pointers are not
// accepted; a nil payload is the zero value of T.
func as[T any](v any) (T, errcode.Code) {
	var zero T
	if v == nil {
		return zero, ""
	}
	t, ok := v.(T)
	if !ok {
		return zero, errcode.InvalidPayload
	}
	return t, ""
}
