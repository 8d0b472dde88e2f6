// Copyright 2023 The Emite Authors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package ns provides namespace constants that are used by the session
// package and other internal packages.
package ns // import "github.com/xose/emite/internal/ns"

// List of commonly used namespaces.
const (
	Bind    = "urn:ietf:params:xml:ns:xmpp-bind"
	Client  = "jabber:client"
	Framing = "urn:ietf:params:xml:ns:xmpp-framing"
	SASL    = "urn:ietf:params:xml:ns:xmpp-sasl"
	Session = "urn:ietf:params:xml:ns:xmpp-session"
	Stream  = "http://etherx.jabber.org/streams"
	XData   = "jabber:x:data"
	XML     = "http://www.w3.org/XML/1998/namespace"
)
