// SPDX-License-Identifier: GPL-3.0-or-later

package wampc

import (
	"context"
	"crypto/hmac"
	"crypto/pbkdf2"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
)

// ChallengeFunc answers a router CHALLENGE for the given auth method.
//
// The extra map is the CHALLENGE details dictionary.
type ChallengeFunc func(ctx context.Context, method string, extra map[string]any) (string, error)

// CheckChallengeAuth checks that the challenge-response options are all
// set or all unset.
//
// The options are [ClientConfig.OnChallenge], [ClientConfig.AuthID] and a
// non-empty [ClientConfig.AuthMethods]. Setting one or two of them yields
// [StatusNoCRACallbackOrID]; setting none or all of them yields [StatusSuccess].
func CheckChallengeAuth(client *ClientConfig) OpStatus {
	return MustLookupStatus(checkChallengeAuth(client))
}

func checkChallengeAuth(client *ClientConfig) StatusName {
	if client == nil {
		return StatusSuccess
	}
	var present int
	if client.OnChallenge != nil {
		present++
	}
	if client.AuthID != "" {
		present++
	}
	if len(client.AuthMethods) > 0 {
		present++
	}
	switch present {
	case 0, 3:
		return StatusSuccess
	default:
		return StatusNoCRACallbackOrID
	}
}

// ErrUnsupportedAuthMethod indicates a CHALLENGE for a method the callback cannot answer.
var ErrUnsupportedAuthMethod = errors.New("wampc: unsupported auth method")

// ErrMissingChallenge indicates a CHALLENGE without a "challenge" string.
var ErrMissingChallenge = errors.New("wampc: missing challenge")

// NewWAMPCRAChallenge returns a [ChallengeFunc] implementing WAMP-CRA.
//
// The signature is the base64 encoded HMAC-SHA256 of the challenge string
// keyed with the secret. When the router sends "salt", "iterations" and
// "keylen" the key is first derived with PBKDF2-SHA256.
func NewWAMPCRAChallenge(secret string) ChallengeFunc {
	return func(ctx context.Context, method string, extra map[string]any) (string, error) {
		if method != "wampcra" {
			return "", fmt.Errorf("%w: %q", ErrUnsupportedAuthMethod, method)
		}
		challenge, ok := extra["challenge"].(string)
		if !ok {
			return "", ErrMissingChallenge
		}
		key := []byte(secret)
		if salt, ok := extra["salt"].(string); ok && salt != "" {
			derived, err := wampcraDeriveKey(secret, salt, intOrDefault(extra["iterations"], 1000), intOrDefault(extra["keylen"], 32))
			if err != nil {
				return "", err
			}
			key = derived
		}
		mac := hmac.New(sha256.New, key)
		mac.Write([]byte(challenge))
		return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
	}
}

// wampcraDeriveKey returns the base64 encoding of the PBKDF2 derived key,
// which WAMP-CRA then uses as the HMAC key.
func wampcraDeriveKey(secret, salt string, iterations, keylen int) ([]byte, error) {
	raw, err := pbkdf2.Key(sha256.New, secret, []byte(salt), iterations, keylen)
	if err != nil {
		return nil, err
	}
	return []byte(base64.StdEncoding.EncodeToString(raw)), nil
}

// intOrDefault converts a decoded JSON or MessagePack number.
func intOrDefault(value any, fallback int) int {
	switch v := value.(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int8:
		return int(v)
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	case uint8:
		return int(v)
	case uint16:
		return int(v)
	case uint32:
		return int(v)
	case uint64:
		return int(v)
	default:
		return fallback
	}
}
