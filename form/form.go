// Copyright 2023 The Emite Authors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package form implements data forms as described in XEP-0004.
//
// Only the subset needed by the room engine is implemented: building submit
// forms (including the empty submit that accepts a newly created room's
// default configuration) and reading back configuration forms offered by a
// room.
package form // import "github.com/xose/emite/form"

import (
	"github.com/xose/emite/internal/ns"
	"github.com/xose/emite/packet"
)

// Type describes the purpose of a form.
type Type string

const (
	// TypeForm is a form-filling request from the asking entity.
	TypeForm Type = "form"

	// TypeSubmit is data submitted in response to a form.
	TypeSubmit Type = "submit"

	// TypeCancel cancels a form submission.
	TypeCancel Type = "cancel"

	// TypeResult is a data result outside a form-filling exchange.
	TypeResult Type = "result"
)

// Field is one form field. Hidden fields (notably FORM_TYPE) keep their
// values when a form is converted for submission.
type Field struct {
	Var    string
	Type   string
	Label  string
	Values []string
}

// Data represents a data form.
type Data struct {
	typ          Type
	title        string
	instructions string
	fields       []Field
}

// New creates an empty form of the given type. An empty submit form is a
// valid submission meaning "accept the defaults".
func New(typ Type) *Data {
	return &Data{typ: typ}
}

// Type returns the form type.
func (d *Data) Type() Type {
	return d.typ
}

// Title returns the form title.
func (d *Data) Title() string {
	return d.title
}

// Instructions returns the form's natural language instructions.
func (d *Data) Instructions() string {
	return d.instructions
}

// Fields returns the form fields in document order.
func (d *Data) Fields() []Field {
	return d.fields
}

// Get returns the values of the field with the given var name.
func (d *Data) Get(varName string) (values []string, ok bool) {
	for _, f := range d.fields {
		if f.Var == varName {
			return f.Values, true
		}
	}
	return nil, false
}

// Set replaces the values of the field with the given var name, creating the
// field if it does not exist.
func (d *Data) Set(varName string, values ...string) {
	for i, f := range d.fields {
		if f.Var == varName {
			d.fields[i].Values = values
			return
		}
	}
	d.fields = append(d.fields, Field{Var: varName, Values: values})
}

// Packet serializes the form as a jabber:x:data <x/> element.
func (d *Data) Packet() *packet.Packet {
	x := packet.New("x", ns.XData)
	x.SetAttr("type", string(d.typ))
	if d.title != "" {
		x.AddChild("title", "").SetText(d.title)
	}
	if d.instructions != "" {
		x.AddChild("instructions", "").SetText(d.instructions)
	}
	for _, f := range d.fields {
		fc := x.AddChild("field", "")
		fc.SetAttr("var", f.Var)
		fc.SetAttr("type", f.Type)
		fc.SetAttr("label", f.Label)
		for _, v := range f.Values {
			fc.AddChild("value", "").SetText(v)
		}
	}
	return x
}

// Submit converts the form into a submittable copy: the type becomes
// "submit", and titles, instructions, labels, and field types are dropped.
func (d *Data) Submit() *Data {
	out := New(TypeSubmit)
	for _, f := range d.fields {
		out.fields = append(out.fields, Field{Var: f.Var, Values: f.Values})
	}
	return out
}

// FromPacket reads a form from a jabber:x:data <x/> element.
func FromPacket(p *packet.Packet) *Data {
	d := New(Type(p.Attr("type")))
	d.title = p.ChildText("title")
	d.instructions = p.ChildText("instructions")
	for _, fc := range p.ChildrenNamed("field", "") {
		f := Field{
			Var:   fc.Attr("var"),
			Type:  fc.Attr("type"),
			Label: fc.Attr("label"),
		}
		for _, vc := range fc.ChildrenNamed("value", "") {
			f.Values = append(f.Values, vc.Text)
		}
		d.fields = append(d.fields, f)
	}
	return d
}
