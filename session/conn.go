// Copyright 2023 The Emite Authors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package session

import (
	"github.com/xose/emite/event"
	"github.com/xose/emite/jid"
	"github.com/xose/emite/packet"
)

// ConnectionStatus is the state reported by a Connection.
type ConnectionStatus string

const (
	// ConnConnected is reported once the wire-level stream is usable.
	ConnConnected ConnectionStatus = "connected"

	// ConnDisconnected is reported when the stream goes away, whether requested
	// or not.
	ConnDisconnected ConnectionStatus = "disconnected"

	// ConnError is reported on any transport failure. The session treats it as
	// fatal to the current attempt.
	ConnError ConnectionStatus = "error"
)

// StreamSettings captures enough state about a suspended stream to reattach
// to it later without a full re-login (XEP-0124 semantics). Transports that
// cannot be suspended return nil from Pause.
type StreamSettings struct {
	SID        string
	RID        string
	Wait       string
	Inactivity string
	MaxPause   string
}

// Connection is the wire-level stream the session engine drives. How bytes
// reach the server (sockets, websockets, HTTP long-polling) is entirely the
// implementation's business; the engine only relies on this contract.
//
// A Connection must deliver all callbacks from a single goroutine: the
// session engine is single threaded and performs no locking.
type Connection interface {
	// Connect opens the wire-level stream. Progress and failure are reported
	// through status change notifications, never as a return value.
	Connect()

	// Disconnect closes the stream.
	Disconnect()

	// RestartStream opens a fresh stream on the existing transport, as
	// required after SASL negotiation.
	RestartStream()

	// Pause detaches from the transport, returning the settings needed to
	// reattach, or nil if the transport cannot be suspended.
	Pause() *StreamSettings

	// Resume reattaches to a previously paused stream.
	Resume(addr jid.JID, settings *StreamSettings)

	// Send writes one stanza to the stream.
	Send(p *packet.Packet)

	// HasErrors reports whether the transport is currently failing (for
	// example, retrying an HTTP request). While true the session queues
	// outgoing stanzas instead of sending.
	HasErrors() bool

	// OnStatusChanged registers a handler for connection status changes.
	OnStatusChanged(f func(status ConnectionStatus, description string)) *event.Registration

	// OnStanzaReceived registers a handler for inbound stream-level elements.
	OnStanzaReceived(f func(p *packet.Packet)) *event.Registration
}
