// Copyright 2023 The Emite Authors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package muc implements the multi-user chat room engine as described in
// XEP-0045.
//
// A Room tracks its occupant roster from the unordered presence traffic the
// room broadcasts, reconciles the room lifecycle (locked until entered or
// configured, ready once the roster is authoritative), and serializes
// room-scoped actions through the session. The Manager routes invitations
// and keeps one Room per room address.
//
// Like the session engine, rooms are event driven and single threaded: all
// notifications fire synchronously on the goroutine delivering the inbound
// stanza.
package muc // import "github.com/xose/emite/muc"

// The namespaces used by multi-user chat.
const (
	NS      = `http://jabber.org/protocol/muc`
	NSUser  = `http://jabber.org/protocol/muc#user`
	NSOwner = `http://jabber.org/protocol/muc#owner`
	NSAdmin = `http://jabber.org/protocol/muc#admin`

	// NSConf is the legacy conference namespace, now only used for direct MUC
	// invitations.
	NSConf = `jabber:x:conference`
)

// statusCodeCreated is sent with the first presence of a newly created room
// that awaits configuration before unlocking.
const statusCodeCreated = "201"
