// Copyright 2023 The Emite Authors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package jid implements XMPP addresses (historically called "Jabber IDs" or
// "JIDs") as described in RFC 7622.
//
// A JID is comprised of three parts: the localpart (the username of the
// account), the domainpart (the server), and the resourcepart (a specific
// client or, inside a chat room, the occupant's nickname). In this library
// the zero value of JID is treated as "no address".
package jid // import "github.com/xose/emite/jid"

import (
	"encoding/xml"
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
	"golang.org/x/text/secure/precis"
)

// Errors returned by the jid package.
var (
	errInvalidUTF8   = errors.New("jid: JID contains invalid UTF-8")
	errNoDomain      = errors.New("jid: JID must contain a domainpart")
	errLongLocalpart = errors.New("jid: localpart must be smaller than 1024 bytes")
	errLongDomain    = errors.New("jid: domainpart must be smaller than 1024 bytes")
	errLongResource  = errors.New("jid: resourcepart must be smaller than 1024 bytes")
)

// JID represents an XMPP address comprising a localpart, domainpart, and
// resourcepart. All parts of a JID are guaranteed to be valid UTF-8 and are
// stored in their canonical form, which gives comparison the greatest chance
// of succeeding.
type JID struct {
	locallen  int
	domainlen int
	data      []byte
}

// Parse constructs a new JID from the given string representation.
func Parse(s string) (JID, error) {
	localpart, domainpart, resourcepart, err := splitString(s, true)
	if err != nil {
		return JID{}, err
	}
	return New(localpart, domainpart, resourcepart)
}

// MustParse is like Parse but panics if the JID cannot be parsed.
// It simplifies safe initialization of JIDs from known-good constant strings.
func MustParse(s string) JID {
	j, err := Parse(s)
	if err != nil {
		panic(`jid: Parse(` + s + `): ` + err.Error())
	}
	return j
}

// New constructs a new JID from the given localpart, domainpart, and
// resourcepart.
func New(localpart, domainpart, resourcepart string) (JID, error) {
	// Ensure that parts are valid UTF-8 (and short circuit the rest of the
	// process if they're not). The domainpart is checked after performing the
	// IDNA ToUnicode operation.
	if !utf8.ValidString(localpart) || !utf8.ValidString(resourcepart) {
		return JID{}, errInvalidUTF8
	}

	// RFC 7622 §3.2.1: A-labels must be converted to U-labels before a string
	// may appear in a domainpart slot.
	domainpart, err := idna.ToUnicode(domainpart)
	if err != nil {
		return JID{}, err
	}
	if !utf8.ValidString(domainpart) {
		return JID{}, errInvalidUTF8
	}

	var lenlocal int
	data := make([]byte, 0, len(localpart)+len(domainpart)+len(resourcepart))

	if localpart != "" {
		data, err = precis.UsernameCaseMapped.Append(data, []byte(localpart))
		if err != nil {
			return JID{}, err
		}
		lenlocal = len(data)
	}

	data = append(data, []byte(domainpart)...)

	if resourcepart != "" {
		data, err = precis.OpaqueString.Append(data, []byte(resourcepart))
		if err != nil {
			return JID{}, err
		}
	}

	if err := commonChecks(data[:lenlocal], domainpart, data[lenlocal+len(domainpart):]); err != nil {
		return JID{}, err
	}

	return JID{
		locallen:  lenlocal,
		domainlen: len(domainpart),
		data:      data,
	}, nil
}

// Zero reports whether the JID is the zero value (no address).
func (j JID) Zero() bool {
	return j.data == nil && j.locallen == 0 && j.domainlen == 0
}

// Bare returns a copy of the JID without the resourcepart. This is sometimes
// called the "bare" JID.
func (j JID) Bare() JID {
	return JID{
		locallen:  j.locallen,
		domainlen: j.domainlen,
		data:      j.data[:j.locallen+j.domainlen],
	}
}

// Domain returns a copy of the JID with only the domainpart.
func (j JID) Domain() JID {
	return JID{
		domainlen: j.domainlen,
		data:      j.data[j.locallen : j.locallen+j.domainlen],
	}
}

// Localpart gets the localpart of a JID (eg "username").
func (j JID) Localpart() string {
	return string(j.data[:j.locallen])
}

// Domainpart gets the domainpart of a JID (eg. "example.net").
func (j JID) Domainpart() string {
	return string(j.data[j.locallen : j.locallen+j.domainlen])
}

// Resourcepart gets the resourcepart of a JID.
func (j JID) Resourcepart() string {
	return string(j.data[j.locallen+j.domainlen:])
}

// WithResource returns a copy of the JID with a new resourcepart.
// This elides validation of the localpart and domainpart.
func (j JID) WithResource(resourcepart string) (JID, error) {
	new := j.Bare()
	if resourcepart == "" {
		return new, nil
	}
	data, err := precis.OpaqueString.Append(new.data, []byte(resourcepart))
	if err != nil {
		return JID{}, err
	}
	if err = checkResourcepart(data[new.locallen+new.domainlen:]); err != nil {
		return JID{}, err
	}
	new.data = data
	return new, nil
}

// Equal performs an octet-for-octet comparison with the given JID.
func (j JID) Equal(j2 JID) bool {
	if len(j.data) != len(j2.data) {
		return false
	}
	for i := 0; i < len(j.data); i++ {
		if j.data[i] != j2.data[i] {
			return false
		}
	}
	return j.locallen == j2.locallen && j.domainlen == j2.domainlen
}

// String converts a JID to its string representation.
func (j JID) String() string {
	var b strings.Builder
	if j.locallen > 0 {
		b.Write(j.data[:j.locallen])
		b.WriteByte('@')
	}
	b.Write(j.data[j.locallen : j.locallen+j.domainlen])
	if len(j.data) > j.locallen+j.domainlen {
		b.WriteByte('/')
		b.Write(j.data[j.locallen+j.domainlen:])
	}
	return b.String()
}

// MarshalXMLAttr satisfies the xml.MarshalerAttr interface and marshals the
// JID as an XML attribute.
func (j JID) MarshalXMLAttr(name xml.Name) (xml.Attr, error) {
	if j.Zero() {
		return xml.Attr{}, nil
	}
	return xml.Attr{Name: name, Value: j.String()}, nil
}

// UnmarshalXMLAttr satisfies the xml.UnmarshalerAttr interface and
// unmarshals an XML attribute into a valid JID (or returns an error).
func (j *JID) UnmarshalXMLAttr(attr xml.Attr) error {
	if attr.Value == "" {
		return nil
	}
	jid, err := Parse(attr.Value)
	if err != nil {
		return err
	}
	*j = jid
	return nil
}

// splitString splits a string representation of a JID into its three parts.
// If safe is true the parts are validated for bare structural correctness.
func splitString(s string, safe bool) (localpart, domainpart, resourcepart string, err error) {
	// RFC 7622 §3.1. Fundamentals:
	//
	//    Implementation Note: When dividing a JID into its component parts,
	//    an implementation needs to match the separator characters '@' and
	//    '/' before applying any transformation algorithms, which might
	//    decompose certain Unicode code points to the separators.
	sep := strings.Index(s, "/")
	if sep == -1 {
		resourcepart = ""
	} else {
		// If the resource part exists, make sure it isn't empty.
		if safe && sep == len(s)-1 {
			return "", "", "", errors.New("jid: JID contains an empty resourcepart")
		}
		resourcepart = s[sep+1:]
		s = s[:sep]
	}

	sep = strings.Index(s, "@")
	switch {
	case sep == -1:
		// There is no @ sign, and therefore no localpart.
		domainpart = s
	case safe && sep == 0:
		// The localpart is empty.
		return "", "", "", errors.New("jid: JID contains an empty localpart")
	default:
		domainpart = s[sep+1:]
		localpart = s[:sep]
	}

	if safe && domainpart == "" {
		return "", "", "", errNoDomain
	}

	return localpart, domainpart, resourcepart, nil
}

func commonChecks(localpart []byte, domainpart string, resourcepart []byte) error {
	err := checkLocalpart(localpart)
	if err != nil {
		return err
	}
	err = checkResourcepart(resourcepart)
	if err != nil {
		return err
	}
	return checkDomainpart(domainpart)
}

func checkLocalpart(localpart []byte) error {
	if len(localpart) > 1023 {
		return errLongLocalpart
	}
	// RFC 7622 §3.3.1 provides a small table of characters that are still not
	// allowed in localparts even though the IdentifierClass base class and the
	// UsernameCaseMapped profile don't forbid them.
	if i := strings.IndexAny(string(localpart), `"&'/:<>@`); i != -1 {
		return errors.New("jid: localpart contains forbidden characters")
	}
	return nil
}

func checkResourcepart(resourcepart []byte) error {
	if len(resourcepart) > 1023 {
		return errLongResource
	}
	return nil
}

func checkDomainpart(domainpart string) error {
	l := len(domainpart)
	if l < 1 {
		return errNoDomain
	}
	if l > 1023 {
		return errLongDomain
	}
	return nil
}
