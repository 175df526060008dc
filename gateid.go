// SPDX-License-Identifier: GPL-3.0-or-later

package wampc

import (
	"github.com/bassosimone/runtimex"
	"github.com/google/uuid"
)

// NewGateID returns a UUIDv7 identifying a [*SessionGate].
//
// Every log event emitted by a gate carries this value in the gateID
// field, so the events of concurrent clients can be told apart and
// sorted by creation time.
//
// This function panics if the system random number generator fails.
func NewGateID() string {
	return runtimex.PanicOnError1(uuid.NewV7()).String()
}
