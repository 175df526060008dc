// SPDX-License-Identifier: GPL-3.0-or-later

package wampc

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ErrUnsupportedScheme indicates a router URL whose scheme is not "ws" or "wss".
var ErrUnsupportedScheme = errors.New("wampc: unsupported URL scheme")

// ErrTransportNotReady indicates I/O attempted before the transport is open.
var ErrTransportNotReady = errors.New("wampc: transport not ready")

// NewWebSocketTransportFactory returns a new [*WebSocketTransportFactory].
//
// The cfg argument contains the common configuration.
//
// The logger argument is the [SLogger] to use for structured logging.
func NewWebSocketTransportFactory(cfg *Config, logger SLogger) *WebSocketTransportFactory {
	return &WebSocketTransportFactory{
		Dialer:           cfg.Dialer,
		ErrClassifier:    cfg.ErrClassifier,
		HandshakeTimeout: cfg.HandshakeTimeout,
		Logger:           logger,
		TLSConfig:        nil,
		TimeNow:          cfg.TimeNow,
	}
}

// WebSocketTransportFactory is the ambient [TransportFactory].
//
// NewTransport validates the URL and returns immediately; the TCP connect
// and the opening handshake run in the background and the returned
// transport implements [MessageTransport], [ReadyNotifier] and [SubprotocolReporter].
//
// All fields are safe to modify after construction but before first use.
// Fields must not be mutated concurrently with calls to NewTransport.
type WebSocketTransportFactory struct {
	// Dialer is the [Dialer] used to connect to the router.
	//
	// Set by [NewWebSocketTransportFactory] from [Config.Dialer].
	Dialer Dialer

	// ErrClassifier classifies errors for structured logging.
	//
	// Set by [NewWebSocketTransportFactory] from [Config.ErrClassifier].
	ErrClassifier ErrClassifier

	// HandshakeTimeout bounds the opening handshake.
	//
	// Set by [NewWebSocketTransportFactory] from [Config.HandshakeTimeout].
	HandshakeTimeout time.Duration

	// Logger is the [SLogger] to use.
	//
	// Set by [NewWebSocketTransportFactory] to the user-provided logger.
	Logger SLogger

	// TLSConfig is the TLS configuration for "wss" URLs.
	//
	// Set by [NewWebSocketTransportFactory] to nil, meaning defaults.
	TLSConfig *tls.Config

	// TimeNow is the function to get the current time.
	//
	// Set by [NewWebSocketTransportFactory] from [Config.TimeNow].
	TimeNow func() time.Time
}

var _ TransportFactory = &WebSocketTransportFactory{}

// NewTransport implements [TransportFactory].
//
// Cancelling ctx aborts the handshake and closes the connection.
func (f *WebSocketTransportFactory) NewTransport(ctx context.Context, URL string, protocols []string) (Transport, error) {
	parsed, err := url.Parse(URL)
	if err != nil {
		return nil, err
	}
	if parsed.Scheme != "ws" && parsed.Scheme != "wss" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, parsed.Scheme)
	}
	ctx, cancel := context.WithCancel(ctx)
	txp := &websocketTransport{
		cancel: cancel,
		ready:  make(chan struct{}),
	}
	go txp.open(ctx, f, URL, slices.Clone(protocols))
	return txp, nil
}

func (f *WebSocketTransportFactory) dialer(ctx context.Context, protocols []string) *websocket.Dialer {
	cfg := &Config{Dialer: f.Dialer, ErrClassifier: f.ErrClassifier, TimeNow: f.TimeNow}
	rawDial := Compose2[string, net.Conn, net.Conn](NewConnectFunc(cfg, f.Logger), NewObserveConnFunc(cfg, f.Logger))
	watch := NewCancelWatchFunc()
	return &websocket.Dialer{
		HandshakeTimeout: f.HandshakeTimeout,
		NetDialContext: func(dialCtx context.Context, network, address string) (net.Conn, error) {
			conn, err := rawDial.Call(dialCtx, address)
			if err != nil {
				return nil, err
			}
			// The connection outlives dialCtx, so watch the transport context.
			return watch.Call(ctx, conn)
		},
		Subprotocols:    protocols,
		TLSClientConfig: f.TLSConfig,
	}
}

func (f *WebSocketTransportFactory) logHandshakeStart(URL string, protocols []string, t0 time.Time) {
	f.Logger.Info(
		"websocketHandshakeStart",
		slog.String("routerUrl", URL),
		slog.Any("wsSubprotocols", protocols),
		slog.Time("t", t0),
	)
}

func (f *WebSocketTransportFactory) logHandshakeDone(
	URL string, protocols []string, t0 time.Time, conn *websocket.Conn, err error) {
	var subprotocol string
	if conn != nil {
		subprotocol = conn.Subprotocol()
	}
	f.Logger.Info(
		"websocketHandshakeDone",
		slog.Any("err", err),
		slog.String("errClass", f.ErrClassifier.Classify(err)),
		slog.String("routerUrl", URL),
		slog.String("wsSubprotocol", subprotocol),
		slog.Any("wsSubprotocols", protocols),
		slog.Time("t0", t0),
		slog.Time("t", f.TimeNow()),
	)
}

// websocketTransport is the [Transport] built by [*WebSocketTransportFactory].
//
// The conn and err fields are written once by open before ready is closed.
type websocketTransport struct {
	cancel    context.CancelFunc
	closeonce sync.Once
	conn      *websocket.Conn
	err       error
	ready     chan struct{}
	writeMu   sync.Mutex
}

var (
	_ MessageTransport    = &websocketTransport{}
	_ ReadyNotifier       = &websocketTransport{}
	_ SubprotocolReporter = &websocketTransport{}
)

func (t *websocketTransport) open(ctx context.Context, f *WebSocketTransportFactory, URL string, protocols []string) {
	defer close(t.ready)
	t0 := f.TimeNow()
	f.logHandshakeStart(URL, protocols, t0)
	conn, resp, err := f.dialer(ctx, protocols).DialContext(ctx, URL, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	f.logHandshakeDone(URL, protocols, t0, conn, err)
	t.conn, t.err = conn, err
}

// Ready implements [ReadyNotifier].
func (t *websocketTransport) Ready() <-chan struct{} {
	return t.ready
}

// isReady returns whether open has completed.
func (t *websocketTransport) isReady() bool {
	select {
	case <-t.ready:
		return true
	default:
		return false
	}
}

// Err implements [ReadyNotifier].
func (t *websocketTransport) Err() error {
	if !t.isReady() {
		return nil
	}
	return t.err
}

// Subprotocol implements [SubprotocolReporter].
func (t *websocketTransport) Subprotocol() string {
	if !t.isReady() || t.conn == nil {
		return ""
	}
	return t.conn.Subprotocol()
}

// SupportsFraming implements [Transport].
//
// WebSocket carries both text and binary messages.
func (t *websocketTransport) SupportsFraming(framing Framing) bool {
	return framing == FramingText || framing == FramingBinary
}

// WriteMessage implements [MessageTransport].
//
// The WebSocket message type matches framing.
func (t *websocketTransport) WriteMessage(framing Framing, data []byte) error {
	if !t.isReady() {
		return ErrTransportNotReady
	}
	if t.err != nil {
		return t.err
	}
	messageType := websocket.TextMessage
	if framing == FramingBinary {
		messageType = websocket.BinaryMessage
	}
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	return t.conn.WriteMessage(messageType, data)
}

// ReadMessage implements [MessageTransport].
func (t *websocketTransport) ReadMessage() (Framing, []byte, error) {
	if !t.isReady() {
		return FramingText, nil, ErrTransportNotReady
	}
	if t.err != nil {
		return FramingText, nil, t.err
	}
	messageType, data, err := t.conn.ReadMessage()
	if messageType == websocket.BinaryMessage {
		return FramingBinary, data, err
	}
	return FramingText, data, err
}

// Close implements [Transport].
//
// It aborts a pending handshake and waits for it to return.
func (t *websocketTransport) Close() (err error) {
	err = net.ErrClosed
	t.closeonce.Do(func() {
		if !t.isReady() {
			t.cancel()
			<-t.ready
		}
		err = nil
		if t.conn != nil {
			err = t.conn.Close()
		}
		t.cancel()
	})
	return
}
