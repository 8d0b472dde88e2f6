// Copyright 2023 The Emite Authors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package event implements the publish/subscribe bus that the session and
// room engines use to notify observers.
//
// Subscriptions are keyed by a (topic, source) pair: each engine instance
// publishes with itself as the source, so a consumer can scope a subscription
// to one session or one room. The bus is not safe for concurrent use; the
// engines are single threaded and all handlers run synchronously on the
// publishing goroutine, in subscription order.
package event // import "github.com/xose/emite/event"

// Handler receives the payload of a published event.
type Handler func(payload interface{})

// Registration is a handle to an active subscription.
type Registration struct {
	bus     *Bus
	key     key
	handler Handler
	active  bool
}

// Cancel removes the subscription. Canceling an already canceled
// registration has no effect. A handler may cancel its own registration from
// within a dispatch.
func (r *Registration) Cancel() {
	if r == nil || !r.active {
		return
	}
	r.active = false
	regs := r.bus.handlers[r.key]
	for i, reg := range regs {
		if reg == r {
			r.bus.handlers[r.key] = append(regs[:i], regs[i+1:]...)
			break
		}
	}
	if len(r.bus.handlers[r.key]) == 0 {
		delete(r.bus.handlers, r.key)
	}
}

type key struct {
	topic  string
	source interface{}
}

// Bus routes published events to subscribed handlers.
type Bus struct {
	handlers map[key][]*Registration
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[key][]*Registration)}
}

// Subscribe registers a handler for events published under the given topic
// from the given source. The source must be comparable (it is normally a
// pointer to the engine instance of interest).
func (b *Bus) Subscribe(topic string, source interface{}, h Handler) *Registration {
	k := key{topic: topic, source: source}
	r := &Registration{bus: b, key: k, handler: h, active: true}
	b.handlers[k] = append(b.handlers[k], r)
	return r
}

// Publish delivers the payload to every handler subscribed to the topic and
// source, in subscription order. Handlers subscribed during delivery are not
// invoked for the current event; handlers canceled during delivery are
// skipped.
func (b *Bus) Publish(topic string, source interface{}, payload interface{}) {
	regs := b.handlers[key{topic: topic, source: source}]
	if len(regs) == 0 {
		return
	}
	snapshot := make([]*Registration, len(regs))
	copy(snapshot, regs)
	for _, r := range snapshot {
		if r.active {
			r.handler(payload)
		}
	}
}
