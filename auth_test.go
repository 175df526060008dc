// SPDX-License-Identifier: GPL-3.0-or-later

package wampc

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopChallenge(ctx context.Context, method string, extra map[string]any) (string, error) {
	return "", nil
}

// Every partial subset of the challenge-response triple is rejected identically.
func TestCheckChallengeAuth(t *testing.T) {
	tests := []struct {
		// name describes the subset being configured.
		name string

		// client is the configuration to check.
		client *ClientConfig

		// want is the expected status name.
		want StatusName
	}{
		{
			name:   "nil config",
			client: nil,
			want:   StatusSuccess,
		},

		{
			name:   "none of the three",
			client: &ClientConfig{},
			want:   StatusSuccess,
		},

		{
			name:   "all of the three",
			client: &ClientConfig{AuthID: "userid", AuthMethods: []string{"wampcra"}, OnChallenge: noopChallenge},
			want:   StatusSuccess,
		},

		{
			name:   "methods only",
			client: &ClientConfig{AuthMethods: []string{"wampcra"}},
			want:   StatusNoCRACallbackOrID,
		},

		{
			name:   "authid only",
			client: &ClientConfig{AuthID: "userid"},
			want:   StatusNoCRACallbackOrID,
		},

		{
			name:   "callback only",
			client: &ClientConfig{OnChallenge: noopChallenge},
			want:   StatusNoCRACallbackOrID,
		},

		{
			name:   "methods and authid",
			client: &ClientConfig{AuthID: "userid", AuthMethods: []string{"wampcra"}},
			want:   StatusNoCRACallbackOrID,
		},

		{
			name:   "methods and callback",
			client: &ClientConfig{AuthMethods: []string{"wampcra"}, OnChallenge: noopChallenge},
			want:   StatusNoCRACallbackOrID,
		},

		{
			name:   "authid and callback",
			client: &ClientConfig{AuthID: "userid", OnChallenge: noopChallenge},
			want:   StatusNoCRACallbackOrID,
		},

		{
			name:   "empty methods list counts as absent",
			client: &ClientConfig{AuthID: "userid", AuthMethods: []string{}, OnChallenge: noopChallenge},
			want:   StatusNoCRACallbackOrID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, MustLookupStatus(tt.want), CheckChallengeAuth(tt.client))
		})
	}
}

func TestNewWAMPCRAChallenge(t *testing.T) {
	const secret = "secret123"
	const challenge = `{"authid":"userid","authrole":"user","nonce":"abc"}`
	onChallenge := NewWAMPCRAChallenge(secret)

	t.Run("signs the challenge", func(t *testing.T) {
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write([]byte(challenge))
		want := base64.StdEncoding.EncodeToString(mac.Sum(nil))

		got, err := onChallenge(context.Background(), "wampcra", map[string]any{"challenge": challenge})

		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("derives the key when salted", func(t *testing.T) {
		extra := map[string]any{
			"challenge":  challenge,
			"salt":       "salt123",
			"iterations": float64(100),
			"keylen":     uint8(32),
		}

		plain, err := onChallenge(context.Background(), "wampcra", map[string]any{"challenge": challenge})
		require.NoError(t, err)
		salted, err := onChallenge(context.Background(), "wampcra", extra)
		require.NoError(t, err)
		again, err := onChallenge(context.Background(), "wampcra", extra)
		require.NoError(t, err)

		assert.NotEqual(t, plain, salted)
		assert.Equal(t, salted, again)
	})

	t.Run("unsupported method", func(t *testing.T) {
		_, err := onChallenge(context.Background(), "ticket", map[string]any{"challenge": challenge})
		require.ErrorIs(t, err, ErrUnsupportedAuthMethod)
	})

	t.Run("missing challenge", func(t *testing.T) {
		_, err := onChallenge(context.Background(), "wampcra", map[string]any{})
		require.ErrorIs(t, err, ErrMissingChallenge)
	})
}

func TestIntOrDefault(t *testing.T) {
	assert.Equal(t, 7, intOrDefault(float64(7), 1))
	assert.Equal(t, 7, intOrDefault(int8(7), 1))
	assert.Equal(t, 7, intOrDefault(uint16(7), 1))
	assert.Equal(t, 1, intOrDefault("7", 1))
	assert.Equal(t, 1, intOrDefault(nil, 1))
}
