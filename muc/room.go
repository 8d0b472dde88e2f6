// Copyright 2023 The Emite Authors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package muc

import (
	"errors"

	"github.com/xose/emite/chat"
	"github.com/xose/emite/event"
	"github.com/xose/emite/form"
	"github.com/xose/emite/jid"
	"github.com/xose/emite/packet"
	"github.com/xose/emite/session"
	"github.com/xose/emite/stanza"
)

var _ chat.Chat = (*Room)(nil)

// iqCategory is the correlation id category for all room IQ traffic.
const iqCategory = "rooms"

// State is the room lifecycle state.
type State uint8

const (
	// StateLocked means the room has not been entered yet (or was left): the
	// roster is not authoritative and room messages cannot be sent.
	StateLocked State = iota

	// StateReady means the occupant roster is authoritative and room actions
	// are available.
	StateReady
)

// String returns a human readable name for the state.
func (s State) String() string {
	switch s {
	case StateLocked:
		return "locked"
	case StateReady:
		return "ready"
	}
	return "unknown"
}

// Room is the engine for one multi-user chat room. Create rooms with New or
// through a Manager.
type Room struct {
	session *session.Session
	bus     *event.Bus

	// addr is the room's own occupant address: room address + nickname.
	addr    jid.JID
	state   State
	subject string

	byOccupant map[string]*Occupant
	byUser     map[string]*Occupant
	order      []*Occupant

	configPending bool

	regs []*event.Registration
}

// New creates a room engine listening on the given session. The address must
// carry the in-room nickname as its resourcepart. The room starts locked; it
// is entered with Open.
func New(s *session.Session, addr jid.JID) (*Room, error) {
	if addr.Resourcepart() == "" {
		return nil, errors.New("muc: room address must carry a nickname")
	}
	r := &Room{
		session:    s,
		bus:        s.Bus(),
		addr:       addr,
		byOccupant: make(map[string]*Occupant),
		byUser:     make(map[string]*Occupant),
	}
	r.regs = append(r.regs,
		s.OnPresence(r.handlePresence),
		s.OnMessage(r.handleMessage),
	)
	return r, nil
}

// Addr returns the room's own occupant address (room address + nickname).
func (r *Room) Addr() jid.JID {
	return r.addr
}

// RoomAddr returns the bare room address.
func (r *Room) RoomAddr() jid.JID {
	return r.addr.Bare()
}

// Nick returns the session's nickname in this room.
func (r *Room) Nick() string {
	return r.addr.Resourcepart()
}

// State returns the current room state.
func (r *Room) State() State {
	return r.state
}

// Subject returns the last room subject seen.
func (r *Room) Subject() string {
	return r.subject
}

// Occupants returns a snapshot of the roster in arrival order.
func (r *Room) Occupants() []Occupant {
	out := make([]Occupant, 0, len(r.order))
	for _, o := range r.order {
		out = append(out, *o)
	}
	return out
}

// OccupantByAddr looks an occupant up by occupant address.
func (r *Room) OccupantByAddr(addr jid.JID) (Occupant, bool) {
	o, ok := r.byOccupant[addr.String()]
	if !ok {
		return Occupant{}, false
	}
	return *o, true
}

// OccupantByUser looks an occupant up by real bare user address. It only
// finds occupants whose user address the room disclosed.
func (r *Room) OccupantByUser(addr jid.JID) (Occupant, bool) {
	o, ok := r.byUser[addr.Bare().String()]
	if !ok {
		return Occupant{}, false
	}
	return *o, true
}

// Open enters the room by sending the enter presence: addressed to the
// room's occupant address, priority 0, with the muc <x/> extension carrying
// any configured history constraints and password.
func (r *Room) Open(opts ...Option) {
	var c enterConfig
	for _, opt := range opts {
		opt(&c)
	}

	p := stanza.NewPresence(stanza.AvailablePresence)
	p.SetTo(r.addr)
	p.SetPriority(0)
	c.apply(p.AddChild("x", NS))
	r.session.Send(p.Packet)
}

// ReEnter re-sends the enter presence after the room was left. It does
// nothing unless the room is locked.
func (r *Room) ReEnter(opts ...Option) {
	if r.state != StateLocked {
		return
	}
	r.Open(opts...)
}

// Close leaves the room: it sends the final unavailable presence and locks
// the room. It does nothing unless the room is ready.
func (r *Room) Close() {
	if r.state != StateReady {
		return
	}
	p := stanza.NewPresence(stanza.UnavailablePresence)
	p.SetTo(r.addr)
	r.session.Send(p.Packet)
	r.setState(StateLocked)
}

// Send delivers a group chat message to the room. The addressing is forced:
// to the bare room address, type groupchat.
func (r *Room) Send(m stanza.Message) {
	m.SetTo(r.addr.Bare())
	m.SetType(stanza.GroupChatMessage)
	r.session.Send(m.Packet)
}

// SendPrivateMessage delivers a one-to-one chat message to the occupant with
// the given nickname, through the room.
func (r *Room) SendPrivateMessage(m stanza.Message, nick string) error {
	to, err := r.addr.Bare().WithResource(nick)
	if err != nil {
		return err
	}
	m.SetTo(to)
	m.SetType(stanza.ChatMessage)
	r.session.Send(m.Packet)
	return nil
}

// SendInvitationTo sends a mediated invitation for this room to the given
// user. The before-invitation-sent notification fires first and may rewrite
// the invitation; invitation-sent fires after handoff.
func (r *Room) SendInvitationTo(to jid.JID, reason string) {
	inv := &Invitation{Room: r.addr.Bare(), To: to, Reason: reason}
	r.bus.Publish(topicBeforeInvitationSent, r, inv)
	r.session.Send(inv.Message().Packet)
	r.bus.Publish(topicInvitationSent, r, *inv)
}

// RequestSubjectChange asks the room to change its subject. No
// acknowledgement is awaited: the change is confirmed by the room
// broadcasting a subject message back.
func (r *Room) RequestSubjectChange(subject string) {
	m := stanza.NewMessage(stanza.GroupChatMessage)
	m.SetTo(r.addr.Bare())
	m.SetSubject(subject)
	r.session.Send(m.Packet)
}

// SetStatus broadcasts the session's availability inside the room. It does
// nothing unless the room is ready.
func (r *Room) SetStatus(show stanza.ShowType, status string) {
	if r.state != StateReady {
		return
	}
	p := stanza.NewPresence(stanza.AvailablePresence)
	p.SetTo(r.addr)
	p.SetShow(show)
	if status != "" {
		p.SetStatus(status)
	}
	r.session.Send(p.Packet)
}

// RequestConfig fetches the room configuration form. The callback fires with
// the form offered by the room; errors are reported through OnError.
func (r *Room) RequestConfig(f func(cfg *form.Data)) {
	iq := stanza.NewIQ(stanza.GetIQ)
	iq.SetTo(r.addr.Bare())
	iq.AddQuery(NSOwner)
	r.session.SendIQ(iqCategory, iq, func(resp stanza.IQ) {
		q := resp.Query()
		if !resp.IsResult() || q == nil {
			r.bus.Publish(topicRoomError, r, resp.Stanza)
			return
		}
		x := q.FirstChild("x")
		if x == nil {
			r.bus.Publish(topicRoomError, r, resp.Stanza)
			return
		}
		f(form.FromPacket(x))
	})
}

// SubmitConfig submits a room configuration form to the room.
func (r *Room) SubmitConfig(cfg *form.Data) {
	iq := stanza.NewIQ(stanza.SetIQ)
	iq.SetTo(r.addr.Bare())
	iq.AddQuery(NSOwner).Append(cfg.Submit().Packet())
	r.session.SendIQ(iqCategory, iq, func(resp stanza.IQ) {
		if !resp.IsResult() {
			r.bus.Publish(topicRoomError, r, resp.Stanza)
		}
	})
}

func (r *Room) setState(state State) {
	if r.state == state {
		return
	}
	r.state = state
	r.bus.Publish(topicStateChanged, r, state)
}

func (r *Room) handlePresence(p stanza.Presence) {
	from := p.From()
	if from.Zero() || !from.Bare().Equal(r.addr.Bare()) {
		return
	}

	switch p.Type() {
	case stanza.ErrorPresence:
		r.bus.Publish(topicRoomError, r, p.Stanza)
	case stanza.UnavailablePresence:
		removed := r.removeOccupant(from)
		self := from.Equal(r.addr)
		if !self && removed != nil && !removed.UserAddr.Zero() {
			if cur := r.session.CurrentAddr(); !cur.Zero() && removed.UserAddr.Bare().Equal(cur.Bare()) {
				self = true
			}
		}
		if self {
			r.Close()
		}
	case stanza.AvailablePresence:
		var item *packet.Packet
		created := false
		extensions := p.ChildrenNamed("x", NSUser)
		for _, x := range extensions {
			if item == nil {
				item = x.FirstChild("item")
			}
			for _, st := range x.ChildrenNamed("status", "") {
				if st.Attr("code") == statusCodeCreated {
					created = true
				}
			}
		}
		// Occupants exist only through the muc#user extension; a bare
		// presence from the room still advances readiness below.
		if len(extensions) > 0 {
			r.upsertOccupant(from, item, p)
		}
		if created {
			r.requestInstantRoom()
		} else {
			r.setState(StateReady)
		}
	}
}

func (r *Room) handleMessage(m stanza.Message) {
	from := m.From()
	if from.Zero() || !from.Bare().Equal(r.addr.Bare()) {
		return
	}
	if m.HasSubject() {
		r.subject = m.Subject()
		r.bus.Publish(topicSubjectChanged, r, SubjectChange{From: from, Subject: m.Subject()})
		if m.Body() == "" {
			return
		}
	}
	r.bus.Publish(topicMessageReceived, r, m)
}

func (r *Room) upsertOccupant(addr jid.JID, item *packet.Packet, p stanza.Presence) {
	key := addr.String()
	o, exists := r.byOccupant[key]
	if !exists {
		o = &Occupant{Addr: addr}
		r.byOccupant[key] = o
		r.order = append(r.order, o)
	}
	if item != nil {
		o.Affiliation = ParseAffiliation(item.Attr("affiliation"))
		o.Role = ParseRole(item.Attr("role"))
		if u, err := jid.Parse(item.Attr("jid")); err == nil {
			o.UserAddr = u.Bare()
			r.byUser[o.UserAddr.String()] = o
		}
	}
	o.Show = p.Show()
	o.Status = p.Status()

	kind := OccupantModified
	if !exists {
		kind = OccupantAdded
	}
	r.bus.Publish(topicOccupantChanged, r, OccupantChange{Kind: kind, Occupant: *o})
}

func (r *Room) removeOccupant(addr jid.JID) *Occupant {
	key := addr.String()
	o := r.byOccupant[key]
	if o == nil {
		return nil
	}
	delete(r.byOccupant, key)
	if !o.UserAddr.Zero() {
		delete(r.byUser, o.UserAddr.String())
	}
	for i, e := range r.order {
		if e == o {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.bus.Publish(topicOccupantChanged, r, OccupantChange{Kind: OccupantRemoved, Occupant: *o})
	return o
}

// requestInstantRoom accepts the default configuration of a newly created
// room by submitting an empty form against the owner query. The room becomes
// ready when the submission is confirmed.
func (r *Room) requestInstantRoom() {
	if r.configPending || r.state == StateReady {
		return
	}
	r.configPending = true

	iq := stanza.NewIQ(stanza.SetIQ)
	iq.SetTo(r.addr.Bare())
	iq.AddQuery(NSOwner).Append(form.New(form.TypeSubmit).Packet())
	r.session.SendIQ(iqCategory, iq, func(resp stanza.IQ) {
		r.configPending = false
		if !resp.IsResult() {
			r.bus.Publish(topicRoomError, r, resp.Stanza)
			return
		}
		r.setState(StateReady)
	})
}

// dispose cancels the room's session subscriptions. The Manager calls it
// when the room is discarded.
func (r *Room) dispose() {
	for _, reg := range r.regs {
		reg.Cancel()
	}
	r.regs = nil
}
