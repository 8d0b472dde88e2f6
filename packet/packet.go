// Copyright 2023 The Emite Authors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package packet implements a generic XML element tree.
//
// Stanzas and stream elements received from or sent through a connection are
// represented as trees of Packet values with attribute and child access. The
// stanza package builds typed wrappers (message, presence, IQ) on top of this
// model.
package packet // import "github.com/xose/emite/packet"

import (
	"encoding/xml"
	"strings"

	"mellium.im/xmlstream"
)

// Packet is one XML element: a name, attributes, character data, and child
// elements. The zero value is not usable; create packets with New.
type Packet struct {
	Name     xml.Name
	Attrs    []xml.Attr
	Children []*Packet
	Text     string
}

// New creates a packet with the given local name and namespace. The namespace
// may be empty, in which case the element inherits its parent's namespace
// when serialized.
func New(local, space string) *Packet {
	return &Packet{Name: xml.Name{Space: space, Local: local}}
}

// Attr returns the value of the first attribute with the given local name, or
// the empty string if no such attribute exists.
func (p *Packet) Attr(name string) string {
	for _, a := range p.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// SetAttr sets the attribute with the given local name, replacing any
// previous value. Setting an empty value removes the attribute.
func (p *Packet) SetAttr(name, value string) {
	for i, a := range p.Attrs {
		if a.Name.Local == name {
			if value == "" {
				p.Attrs = append(p.Attrs[:i], p.Attrs[i+1:]...)
				return
			}
			p.Attrs[i].Value = value
			return
		}
	}
	if value == "" {
		return
	}
	p.Attrs = append(p.Attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
}

// AddChild creates a child element with the given local name and namespace,
// appends it, and returns it.
func (p *Packet) AddChild(local, space string) *Packet {
	c := New(local, space)
	p.Children = append(p.Children, c)
	return c
}

// Append appends an existing packet as a child element.
func (p *Packet) Append(c *Packet) {
	p.Children = append(p.Children, c)
}

// FirstChild returns the first child element with the given local name, or
// nil if there is none.
func (p *Packet) FirstChild(local string) *Packet {
	for _, c := range p.Children {
		if c.Name.Local == local {
			return c
		}
	}
	return nil
}

// HasChild reports whether a child element with the given local name exists.
func (p *Packet) HasChild(local string) bool {
	return p.FirstChild(local) != nil
}

// ChildrenNamed returns all child elements matching the given local name and
// namespace. An empty namespace matches any namespace.
func (p *Packet) ChildrenNamed(local, space string) []*Packet {
	var out []*Packet
	for _, c := range p.Children {
		if c.Name.Local == local && (space == "" || c.Name.Space == space) {
			out = append(out, c)
		}
	}
	return out
}

// SetText replaces the element's character data.
func (p *Packet) SetText(s string) {
	p.Text = s
}

// ChildText returns the character data of the first child with the given
// local name, or the empty string if there is none.
func (p *Packet) ChildText(local string) string {
	if c := p.FirstChild(local); c != nil {
		return c.Text
	}
	return ""
}

// StartElement converts the packet into an XML start token.
func (p *Packet) StartElement() xml.StartElement {
	return xml.StartElement{Name: p.Name, Attr: p.Attrs}
}

// TokenReader satisfies the xmlstream.Marshaler interface.
func (p *Packet) TokenReader() xml.TokenReader {
	return p.tokenReader("")
}

// tokenReader serializes the packet with inherited-namespace suppression: a
// child whose namespace matches the enclosing element's is emitted without
// its own xmlns declaration.
func (p *Packet) tokenReader(parent string) xml.TokenReader {
	start := p.StartElement()
	if parent != "" && start.Name.Space == parent {
		start.Name.Space = ""
	}
	space := p.Name.Space
	if space == "" {
		space = parent
	}

	inner := make([]xml.TokenReader, 0, len(p.Children)+1)
	if p.Text != "" {
		inner = append(inner, xmlstream.Token(xml.CharData(p.Text)))
	}
	for _, c := range p.Children {
		inner = append(inner, c.tokenReader(space))
	}
	return xmlstream.Wrap(xmlstream.MultiReader(inner...), start)
}

// WriteXML satisfies the xmlstream.WriterTo interface.
// It is like MarshalXML except it writes tokens to w.
func (p *Packet) WriteXML(w xmlstream.TokenWriter) (n int, err error) {
	return xmlstream.Copy(w, p.TokenReader())
}

// MarshalXML implements xml.Marshaler.
func (p *Packet) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	_, err := p.WriteXML(e)
	return err
}

// UnmarshalXML implements xml.Unmarshaler.
func (p *Packet) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	p.Name = start.Name
	p.Attrs = stripNamespaceDecls(start.Attr)
	p.Children = nil
	p.Text = ""

	var text strings.Builder
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			c := &Packet{}
			if err := c.UnmarshalXML(d, t); err != nil {
				return err
			}
			p.Children = append(p.Children, c)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			p.Text = text.String()
			return nil
		}
	}
}

// Decode reads the next element from d and unmarshals it into a packet.
func Decode(d *xml.Decoder) (*Packet, error) {
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			p := &Packet{}
			err = p.UnmarshalXML(d, start)
			return p, err
		}
	}
}

// ParseString parses a packet from its string representation.
func ParseString(s string) (*Packet, error) {
	return Decode(xml.NewDecoder(strings.NewReader(s)))
}

// String returns the XML serialization of the packet. It is mostly useful in
// tests and debug output.
func (p *Packet) String() string {
	var b strings.Builder
	e := xml.NewEncoder(&b)
	if _, err := p.WriteXML(e); err != nil {
		return "<!" + err.Error() + "!>"
	}
	if err := e.Flush(); err != nil {
		return "<!" + err.Error() + "!>"
	}
	return b.String()
}

// xmlns declarations are resolved into token names by the decoder; keeping
// them as attributes too would duplicate them on re-serialization.
func stripNamespaceDecls(attrs []xml.Attr) []xml.Attr {
	out := make([]xml.Attr, 0, len(attrs))
	for _, a := range attrs {
		if a.Name.Local == "xmlns" || a.Name.Space == "xmlns" {
			continue
		}
		out = append(out, a)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
