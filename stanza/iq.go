// Copyright 2023 The Emite Authors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package stanza

import (
	"github.com/xose/emite/packet"
)

// IQType is the type of an IQ stanza.
// It should normally be one of the constants defined in this package.
type IQType string

const (
	// GetIQ is used to query another entity for information.
	GetIQ IQType = "get"

	// SetIQ is used to provide data to another entity, set new values, and
	// replace existing values.
	SetIQ IQType = "set"

	// ResultIQ is sent in response to a successful get or set IQ.
	ResultIQ IQType = "result"

	// ErrorIQ is sent to report that an error occurred during the delivery or
	// processing of a get or set IQ.
	ErrorIQ IQType = "error"
)

// IQ ("Information Query") is used as a general request/response mechanism.
// IQs are one-to-one, provide get and set semantics, and always require a
// response in the form of a result or an error.
type IQ struct {
	Stanza
}

// NewIQ creates an empty IQ of the given type.
func NewIQ(t IQType) IQ {
	iq := IQ{Stanza: New("iq")}
	iq.SetType(t)
	return iq
}

// WrapIQ wraps a received packet in an IQ.
func WrapIQ(p *packet.Packet) IQ {
	return IQ{Stanza: Stanza{Packet: p}}
}

// Type returns the IQ type.
func (iq IQ) Type() IQType {
	return IQType(iq.TypeAttr())
}

// SetType sets the IQ type.
func (iq IQ) SetType(t IQType) {
	iq.SetAttr("type", string(t))
}

// IsResponse reports whether the IQ is of a response type (result or error)
// rather than a request type (get or set).
func (iq IQ) IsResponse() bool {
	t := iq.Type()
	return t == ResultIQ || t == ErrorIQ
}

// IsResult reports whether the IQ is a successful response.
func (iq IQ) IsResult() bool {
	return iq.Type() == ResultIQ
}

// AddQuery adds a <query/> child in the given namespace and returns it.
func (iq IQ) AddQuery(space string) *packet.Packet {
	return iq.AddChild("query", space)
}

// Query returns the IQ's <query/> child, or nil if there is none.
func (iq IQ) Query() *packet.Packet {
	return iq.FirstChild("query")
}
