// SPDX-License-Identifier: GPL-3.0-or-later

package wampc

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// Serializer encodes and decodes WAMP messages.
//
// The session gate treats it as opaque except for the protocol name,
// which selects the "wamp.2.<protocol>" subprotocol, and the framing
// it requires from the [Transport].
type Serializer interface {
	// Protocol returns the serializer name (e.g., "json").
	Protocol() string

	// Framing returns the framing the serializer requires.
	Framing() Framing

	// Encode serializes a message.
	Encode(message []any) ([]byte, error)

	// Decode deserializes a message.
	Decode(data []byte) ([]any, error)
}

// Subprotocol returns the WAMP subprotocol name for the given [Serializer].
func Subprotocol(serializer Serializer) string {
	return "wamp.2." + serializer.Protocol()
}

// DefaultSerializer returns the [Serializer] used when none is configured.
func DefaultSerializer() Serializer {
	return JSONSerializer{}
}

// JSONSerializer is the default text [Serializer].
//
// The zero value is ready to use.
type JSONSerializer struct{}

var _ Serializer = JSONSerializer{}

// Protocol implements [Serializer].
func (JSONSerializer) Protocol() string {
	return "json"
}

// Framing implements [Serializer].
func (JSONSerializer) Framing() Framing {
	return FramingText
}

// Encode implements [Serializer].
func (JSONSerializer) Encode(message []any) ([]byte, error) {
	return json.Marshal(message)
}

// Decode implements [Serializer].
func (JSONSerializer) Decode(data []byte) ([]any, error) {
	var message []any
	if err := json.Unmarshal(data, &message); err != nil {
		return nil, err
	}
	return message, nil
}

// MsgpackSerializer is a binary [Serializer] using MessagePack.
//
// The zero value is ready to use.
type MsgpackSerializer struct{}

var _ Serializer = MsgpackSerializer{}

// Protocol implements [Serializer].
func (MsgpackSerializer) Protocol() string {
	return "msgpack"
}

// Framing implements [Serializer].
func (MsgpackSerializer) Framing() Framing {
	return FramingBinary
}

// Encode implements [Serializer].
func (MsgpackSerializer) Encode(message []any) ([]byte, error) {
	return msgpack.Marshal(message)
}

// Decode implements [Serializer].
func (MsgpackSerializer) Decode(data []byte) ([]any, error) {
	var message []any
	if err := msgpack.Unmarshal(data, &message); err != nil {
		return nil, err
	}
	return message, nil
}
