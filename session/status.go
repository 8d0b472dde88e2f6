// Copyright 2023 The Emite Authors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package session

// Status represents the lifecycle state of a Session. Exactly one status is
// current at a time.
type Status int8

// The session lifecycle, roughly in the order a successful login traverses
// it.
const (
	// StatusDisconnected is the initial status and the status after the
	// connection goes away. Entering it clears the bound user address.
	StatusDisconnected Status = iota

	// StatusConnecting is set while the transport connects and while
	// authentication is in flight.
	StatusConnecting

	// StatusConnected is set when the transport reports a usable stream before
	// authentication begins.
	StatusConnected

	// StatusAuthorized is set when SASL authentication succeeds.
	StatusAuthorized

	// StatusNotAuthorized is set when SASL authentication fails; the transport
	// is torn down.
	StatusNotAuthorized

	// StatusBound is set when resource binding succeeds.
	StatusBound

	// StatusLoggedIn is set when session establishment succeeds and the final
	// bound address is known.
	StatusLoggedIn

	// StatusReady is set by the application once initial setup is done;
	// entering it flushes the outgoing queue.
	StatusReady

	// StatusLoggingOut is set while an explicit logout tears the session down.
	StatusLoggingOut

	// StatusResume is set while a paused stream is being re-presented to the
	// transport.
	StatusResume

	// StatusError is set when the transport reports an error. No automatic
	// retry happens at this layer.
	StatusError
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusDisconnected:
		return "disconnected"
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusAuthorized:
		return "authorized"
	case StatusNotAuthorized:
		return "not-authorized"
	case StatusBound:
		return "bound"
	case StatusLoggedIn:
		return "logged-in"
	case StatusReady:
		return "ready"
	case StatusLoggingOut:
		return "logging-out"
	case StatusResume:
		return "resume"
	case StatusError:
		return "error"
	}
	return "invalid"
}
