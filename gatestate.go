// SPDX-License-Identifier: GPL-3.0-or-later

package wampc

// GateState is the state of a [*SessionGate].
//
//	Uninitialized -> Validating -> ConfigError (final)
//	                            -> Idle (final)
//	                            -> AwaitingTransport -> SerializerError (final)
//	                                                 -> TransportError (final)
//	                                                 -> Establishing (final)
type GateState int

const (
	// StateUninitialized is the state before validation runs.
	StateUninitialized = GateState(iota)

	// StateValidating means the client configuration is being validated.
	StateValidating

	// StateConfigError means validation failed and no transport exists.
	StateConfigError

	// StateIdle means the configuration is empty, so there is nothing to connect to.
	StateIdle

	// StateAwaitingTransport means a transport exists and the serializer
	// check is pending.
	StateAwaitingTransport

	// StateSerializerError means the serializer cannot be used over the transport.
	StateSerializerError

	// StateTransportError means the transport failed before becoming ready.
	StateTransportError

	// StateEstablishing means the gate passed and the WAMP handshake may start.
	StateEstablishing
)

// String implements [fmt.Stringer].
func (s GateState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateValidating:
		return "validating"
	case StateConfigError:
		return "configError"
	case StateIdle:
		return "idle"
	case StateAwaitingTransport:
		return "awaitingTransport"
	case StateSerializerError:
		return "serializerError"
	case StateTransportError:
		return "transportError"
	case StateEstablishing:
		return "establishing"
	default:
		return "unknown"
	}
}

// IsFinal returns whether the gate will not leave this state.
func (s GateState) IsFinal() bool {
	switch s {
	case StateConfigError, StateIdle, StateSerializerError, StateTransportError, StateEstablishing:
		return true
	default:
		return false
	}
}
