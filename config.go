// SPDX-License-Identifier: GPL-3.0-or-later

package wampc

import (
	"net"
	"time"
)

// Config holds common configuration for the session gate and transports.
//
// Pass this to constructor functions to pre-wire dependencies.
// All fields have sensible defaults set by [NewConfig].
type Config struct {
	// CheckDelay is the deferred tick after which the serializer check runs
	// for transports that do not implement [ReadyNotifier].
	//
	// Set by [NewConfig] to 1ms.
	CheckDelay time.Duration

	// DefaultTransport is the ambient [TransportFactory] used when
	// [ClientConfig.Transport] is nil. A nil value means there is no
	// ambient transport and such configurations fail validation.
	//
	// Set by [NewConfig] to a [*WebSocketTransportFactory] that does not log.
	// Replace it with [NewWebSocketTransportFactory] to enable logging.
	DefaultTransport TransportFactory

	// Dialer is used by [*ConnectFunc].
	//
	// Set by [NewConfig] to [*net.Dialer].
	Dialer Dialer

	// ErrClassifier classifies errors for structured logging.
	//
	// Set by [NewConfig] to [DefaultErrClassifier].
	ErrClassifier ErrClassifier

	// HandshakeTimeout bounds the WebSocket opening handshake.
	//
	// Set by [NewConfig] to 10s.
	HandshakeTimeout time.Duration

	// TimeNow returns the current time.
	//
	// Set by [NewConfig] to [time.Now].
	TimeNow func() time.Time
}

// NewConfig creates a [*Config] with sensible defaults.
func NewConfig() *Config {
	cfg := &Config{
		CheckDelay:       time.Millisecond,
		Dialer:           &net.Dialer{},
		ErrClassifier:    DefaultErrClassifier,
		HandshakeTimeout: 10 * time.Second,
		TimeNow:          time.Now,
	}
	cfg.DefaultTransport = NewWebSocketTransportFactory(cfg, DefaultSLogger())
	return cfg
}
