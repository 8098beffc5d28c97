// Package bus is a small in-process pub/sub message bus with MQTT-style
// topics: exact string tokens, "+" (one level) and "#" (rest of topic)
// wildcards on subscriptions, retained messages, and request/reply.
package bus

import (
	"sync"
)

// Topic is a sequence of string tokens.
type Topic []string

// T builds a topic from tokens.
func T(tokens ...string) Topic { return Topic(tokens) }

const (
	WildOne  = "+"
	WildRest = "#"
)

type Message struct {
	Topic    Topic
	Payload  any
	Retained bool
	ReplyTo  Topic
}

// CanReply reports whether the sender asked for a reply.
func (m *Message) CanReply() bool { return len(m.ReplyTo) > 0 }

type Subscription struct {
	topic Topic
	ch    chan *Message
	conn  *Connection
}

func (s *Subscription) Topic() Topic             { return s.topic }
func (s *Subscription) Channel() <-chan *Message { return s.ch }
func (s *Subscription) Unsubscribe()             { s.conn.Unsubscribe(s) }

// ---- trie ----

type node struct {
	children map[string]*node
	subs     []*Subscription
	retained *Message
}

type Bus struct {
	mu   sync.RWMutex
	root *node
	qLen int
}

// NewBus creates a new bus with the given subscription queue length.
func NewBus(queueLen int) *Bus {
	if queueLen <= 0 {
		queueLen = 8 // safe default
	}
	return &Bus{root: &node{}, qLen: queueLen}
}

func (b *Bus) addSubscription(topic Topic, sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.root
	for _, tok := range topic {
		if n.children == nil {
			n.children = make(map[string]*node)
		}
		child, ok := n.children[tok]
		if !ok {
			child = &node{}
			n.children[tok] = child
		}
		n = child
	}
	n.subs = append(n.subs, sub)

	// Deliver any retained messages the new subscription matches.
	b.walkRetained(b.root, topic, func(m *Message) {
		select {
		case sub.ch <- m:
		default:
		}
	})
}

// walkRetained visits retained messages under n that match pattern.
func (b *Bus) walkRetained(n *node, pattern Topic, emit func(*Message)) {
	if len(pattern) == 0 {
		if n.retained != nil {
			emit(n.retained)
		}
		return
	}
	tok := pattern[0]
	switch tok {
	case WildRest:
		b.walkAllRetained(n, emit)
	case WildOne:
		for _, child := range n.children {
			b.walkRetained(child, pattern[1:], emit)
		}
	default:
		if child, ok := n.children[tok]; ok {
			b.walkRetained(child, pattern[1:], emit)
		}
	}
}

func (b *Bus) walkAllRetained(n *node, emit func(*Message)) {
	if n.retained != nil {
		emit(n.retained)
	}
	for _, child := range n.children {
		b.walkAllRetained(child, emit)
	}
}

// Publish delivers a message to all matching subscribers and stores it
// when retained. A retained publish with a nil payload clears the slot.
func (b *Bus) Publish(msg *Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.deliver(b.root, msg.Topic, msg)

	if msg.Retained {
		n := b.root
		for _, tok := range msg.Topic {
			if n.children == nil {
				n.children = make(map[string]*node)
			}
			child, ok := n.children[tok]
			if !ok {
				child = &node{}
				n.children[tok] = child
			}
			n = child
		}
		if msg.Payload == nil {
			n.retained = nil
		} else {
			n.retained = msg
		}
	}
}

// deliver walks subscription patterns against the published topic.
func (b *Bus) deliver(n *node, rest Topic, msg *Message) {
	// "#" at this level matches the whole remainder (including empty).
	if hash, ok := n.children[WildRest]; ok {
		b.send(hash, msg)
	}
	if len(rest) == 0 {
		b.send(n, msg)
		return
	}
	if child, ok := n.children[rest[0]]; ok {
		b.deliver(child, rest[1:], msg)
	}
	if plus, ok := n.children[WildOne]; ok {
		b.deliver(plus, rest[1:], msg)
	}
}

func (b *Bus) send(n *node, msg *Message) {
	for _, sub := range n.subs {
		select {
		case sub.ch <- msg:
		default:
			// drop oldest if queue full
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- msg:
			default:
			}
		}
	}
}

func (b *Bus) unsubscribe(topic Topic, sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.root
	var stack []*node
	for _, t := range topic {
		if n.children == nil {
			return
		}
		child, ok := n.children[t]
		if !ok {
			return
		}
		stack = append(stack, n)
		n = child
	}
	for i, s := range n.subs {
		if s == sub {
			n.subs = append(n.subs[:i], n.subs[i+1:]...)
			break
		}
	}
	// Prune empty nodes.
	for i := len(topic) - 1; i >= 0; i-- {
		parent := stack[i]
		key := topic[i]
		child := parent.children[key]
		if len(child.subs) == 0 && len(child.children) == 0 && child.retained == nil {
			delete(parent.children, key)
		} else {
			break
		}
	}
}
