// Copyright 2023 The Emite Authors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package session

import (
	"github.com/xose/emite/jid"
)

// Credentials are the user address and password presented during login.
// They are held by the session only between Login and the moment the
// authenticator consumes them, and are never persisted.
type Credentials struct {
	Addr      jid.JID
	Password  string
	anonymous bool
}

// NewCredentials creates credentials for password authentication. The
// address may carry a resourcepart, which becomes the requested resource
// during binding.
func NewCredentials(addr jid.JID, password string) Credentials {
	return Credentials{Addr: addr, Password: password}
}

// Anonymous creates credentials for SASL ANONYMOUS login against the given
// domain.
func Anonymous(domain jid.JID) Credentials {
	return Credentials{Addr: domain.Domain(), anonymous: true}
}

// IsAnonymous reports whether the credentials request anonymous login.
func (c Credentials) IsAnonymous() bool {
	return c.anonymous
}
