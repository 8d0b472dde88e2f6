// Copyright 2023 The Emite Authors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package websocket_test

import (
	"encoding/xml"
	"strings"
	"testing"

	"golang.org/x/text/language"

	"github.com/xose/emite/jid"
	"github.com/xose/emite/websocket"
)

func TestOpenMarshal(t *testing.T) {
	tests := []struct {
		open websocket.Open
		want []string
		skip []string
	}{
		{
			open: websocket.Open{To: "example.net", Version: "1.0"},
			want: []string{
				`xmlns="urn:ietf:params:xml:ns:xmpp-framing"`,
				`to="example.net"`,
				`version="1.0"`,
			},
			skip: []string{"lang", "from", "id"},
		},
		{
			open: websocket.Open{To: "example.net", Lang: language.English, ID: "s1"},
			want: []string{
				`lang="en"`,
				`id="s1"`,
			},
		},
	}
	for _, tc := range tests {
		b, err := xml.Marshal(tc.open)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		s := string(b)
		for _, want := range tc.want {
			if !strings.Contains(s, want) {
				t.Errorf("marshaled open %q missing %q", s, want)
			}
		}
		for _, skip := range tc.skip {
			if strings.Contains(s, skip) {
				t.Errorf("marshaled open %q must not contain %q", s, skip)
			}
		}
	}
}

func TestCloseMarshal(t *testing.T) {
	b, err := xml.Marshal(websocket.Close{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<close xmlns="urn:ietf:params:xml:ns:xmpp-framing"></close>`
	if string(b) != want {
		t.Fatalf("wrong close element: %s", b)
	}
}

func TestPauseUnsupported(t *testing.T) {
	c := websocket.New("wss://example.net/ws", jid.MustParse("example.net"))
	if settings := c.Pause(); settings != nil {
		t.Fatalf("websocket streams cannot be suspended, got settings %v", settings)
	}
}
