// Copyright 2023 The Emite Authors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package id generates random identifiers for resourceparts and stanza ids.
package id // import "github.com/xose/emite/internal/id"

import (
	"crypto/rand"
	"fmt"
)

// Len is the length of identifiers returned by Random.
const Len = 16

// Random generates a new random identifier of length Len. If the OS's entropy
// pool isn't initialized, or we can't generate random numbers for some other
// reason, panic.
func Random() string {
	return random(Len)
}

func random(n int) string {
	b := make([]byte, (n/2)+(n&1))
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}

	return fmt.Sprintf("%x", b)[:n]
}
