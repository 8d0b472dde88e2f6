// Copyright 2023 The Emite Authors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package muc

import (
	"math"
	"strconv"
	"time"

	"github.com/xose/emite/packet"
)

type enterConfig struct {
	maxStanzas *uint64
	maxChars   *uint64
	seconds    *uint64
	since      string
	password   string
}

// apply adds the configured history and password children to an enter
// presence's <x/> extension. Only fields the caller set are emitted.
func (c *enterConfig) apply(x *packet.Packet) {
	if c.maxStanzas != nil || c.maxChars != nil || c.seconds != nil || c.since != "" {
		h := x.AddChild("history", "")
		if c.maxStanzas != nil {
			h.SetAttr("maxstanzas", strconv.FormatUint(*c.maxStanzas, 10))
		}
		if c.maxChars != nil {
			h.SetAttr("maxchars", strconv.FormatUint(*c.maxChars, 10))
		}
		if c.seconds != nil {
			h.SetAttr("seconds", strconv.FormatUint(*c.seconds, 10))
		}
		if c.since != "" {
			h.SetAttr("since", c.since)
		}
	}
	if c.password != "" {
		x.AddChild("password", "").SetText(c.password)
	}
}

// Option is used to configure entering a room.
type Option func(*enterConfig)

// MaxHistory configures the maximum number of history messages that will be
// sent to the client when entering the room.
func MaxHistory(messages uint64) Option {
	return func(c *enterConfig) {
		c.maxStanzas = &messages
	}
}

// MaxBytes configures the maximum number of bytes of history XML that will
// be sent to the client when entering the room.
func MaxBytes(b uint64) Option {
	return func(c *enterConfig) {
		c.maxChars = &b
	}
}

// Duration configures the room to send history received within a window of
// time before entering.
func Duration(d time.Duration) Option {
	return func(c *enterConfig) {
		s := uint64(math.Abs(math.Round(d.Seconds())))
		c.seconds = &s
	}
}

// Since configures the room to send history received since the provided
// time.
func Since(t time.Time) Option {
	return func(c *enterConfig) {
		c.since = t.UTC().Format(time.RFC3339Nano)
	}
}

// Password is used to enter password protected rooms.
func Password(p string) Option {
	return func(c *enterConfig) {
		c.password = p
	}
}
