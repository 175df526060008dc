// SPDX-License-Identifier: GPL-3.0-or-later

package wampc

import (
	"fmt"
	"slices"

	"github.com/bassosimone/runtimex"
)

// OpStatus is the outcome of the session establishment gate.
//
// A zero Code means success. Every other code identifies exactly one
// failure kind. Consumers branch on Code, so codes never change.
type OpStatus struct {
	// Code is the numeric status code.
	Code int

	// Description is the human readable description.
	Description string
}

// String implements [fmt.Stringer].
func (s OpStatus) String() string {
	return fmt.Sprintf("%d %s", s.Code, s.Description)
}

// IsSuccess returns whether the status is [StatusSuccess].
func (s OpStatus) IsSuccess() bool {
	return s.Code == 0
}

// StatusName is the symbolic name of a registry entry.
type StatusName string

// Registry entries.
const (
	StatusSuccess               = StatusName("SUCCESS")
	StatusNoSerializerAvailable = StatusName("NO_SERIALIZER_AVAILABLE")
	StatusNoRealm               = StatusName("NO_REALM")
	StatusNoWSOrURL             = StatusName("NO_WS_OR_URL")
	StatusNoCRACallbackOrID     = StatusName("NO_CRA_CB_OR_ID")
	StatusInvalidSerializerType = StatusName("INVALID_SERIALIZER_TYPE")
	StatusTransportError        = StatusName("TRANSPORT_ERROR")
)

// statusRegistry is populated at init and never mutated.
var statusRegistry = map[StatusName]OpStatus{
	StatusSuccess: {
		Code:        0,
		Description: "Success!",
	},
	StatusNoSerializerAvailable: {
		Code:        5,
		Description: "Server has chosen a serializer, which is not available!",
	},
	StatusNoRealm: {
		Code:        21,
		Description: "No realm specified!",
	},
	StatusNoWSOrURL: {
		Code:        22,
		Description: "No websocket provided or URL specified is incorrect!",
	},
	StatusNoCRACallbackOrID: {
		Code:        23,
		Description: "No onChallenge callback or authid was provided for authentication!",
	},
	StatusInvalidSerializerType: {
		Code:        25,
		Description: "Invalid serializer type specified!",
	},
	StatusTransportError: {
		Code:        26,
		Description: "Transport failed before becoming ready!",
	},
}

// LookupStatus returns the [OpStatus] registered under name.
func LookupStatus(name StatusName) (OpStatus, bool) {
	status, found := statusRegistry[name]
	return status, found
}

// MustLookupStatus is like [LookupStatus] but panics for unknown names.
func MustLookupStatus(name StatusName) OpStatus {
	status, found := LookupStatus(name)
	runtimex.Assert(found)
	return status
}

// StatusNames returns the registered names sorted by code.
func StatusNames() []StatusName {
	names := make([]StatusName, 0, len(statusRegistry))
	for name := range statusRegistry {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b StatusName) int {
		return statusRegistry[a].Code - statusRegistry[b].Code
	})
	return names
}
