// SPDX-License-Identifier: GPL-3.0-or-later

package wampc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSerializer(t *testing.T) {
	ser := DefaultSerializer()
	assert.Equal(t, "json", ser.Protocol())
	assert.Equal(t, FramingText, ser.Framing())
	assert.Equal(t, "wamp.2.json", Subprotocol(ser))
}

func TestMsgpackSerializer(t *testing.T) {
	ser := MsgpackSerializer{}
	assert.Equal(t, "msgpack", ser.Protocol())
	assert.Equal(t, FramingBinary, ser.Framing())
	assert.Equal(t, "wamp.2.msgpack", Subprotocol(ser))
}

// Both serializers carry a HELLO message across unchanged.
func TestSerializerHello(t *testing.T) {
	hello := []any{1, "AppRealm", map[string]any{"authid": "userid"}}

	for _, ser := range []Serializer{JSONSerializer{}, MsgpackSerializer{}} {
		t.Run(ser.Protocol(), func(t *testing.T) {
			data, err := ser.Encode(hello)
			require.NoError(t, err)

			message, err := ser.Decode(data)
			require.NoError(t, err)
			require.Len(t, message, 3)
			assert.EqualValues(t, 1, message[0])
			assert.Equal(t, "AppRealm", message[1])
		})
	}
}

func TestSerializerDecodeError(t *testing.T) {
	_, err := JSONSerializer{}.Decode([]byte("{"))
	assert.Error(t, err)

	_, err = MsgpackSerializer{}.Decode([]byte{0xc1})
	assert.Error(t, err)
}
