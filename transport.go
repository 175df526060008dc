// SPDX-License-Identifier: GPL-3.0-or-later

package wampc

import "context"

// Framing is the message framing a transport carries.
type Framing int

const (
	// FramingText is used by text serializers (e.g., JSON).
	FramingText = Framing(iota)

	// FramingBinary is used by binary serializers (e.g., MessagePack).
	FramingBinary
)

// String implements [fmt.Stringer].
func (f Framing) String() string {
	switch f {
	case FramingText:
		return "text"
	case FramingBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// Transport is a message oriented channel towards a WAMP router.
//
// The session gate only reads the framing capability and, when the
// transport implements [ReadyNotifier] or [SubprotocolReporter], its
// readiness and negotiated subprotocol. Everything else about the
// read and write lifecycle belongs to the layer above the gate.
type Transport interface {
	// SupportsFraming returns whether the transport can carry
	// messages using the given framing.
	SupportsFraming(framing Framing) bool

	// Close closes the transport.
	Close() error
}

// ReadyNotifier is implemented by transports whose capabilities are
// only known once they are open.
type ReadyNotifier interface {
	// Ready returns a channel closed when the transport is open or
	// has failed to open.
	Ready() <-chan struct{}

	// Err returns the error that prevented opening, if any. Only
	// meaningful after Ready is closed.
	Err() error
}

// SubprotocolReporter is implemented by transports that negotiate
// a WAMP subprotocol (e.g., "wamp.2.json") with the router.
type SubprotocolReporter interface {
	// Subprotocol returns the negotiated subprotocol or an empty
	// string when the router did not select one.
	Subprotocol() string
}

// MessageTransport is implemented by transports that carry WAMP messages
// once the gate hands off to session establishment.
type MessageTransport interface {
	Transport

	// WriteMessage sends data as a single message using the given framing.
	WriteMessage(framing Framing, data []byte) error

	// ReadMessage blocks until the next message arrives.
	ReadMessage() (Framing, []byte, error)
}

// TransportFactory constructs a [Transport] bound to a router URL.
//
// NewTransport must not block waiting for the router: transports that
// open asynchronously implement [ReadyNotifier]. Returning an error
// means the transport could not even be constructed (e.g., malformed URL).
type TransportFactory interface {
	NewTransport(ctx context.Context, URL string, protocols []string) (Transport, error)
}

// TransportFactoryFunc adapts a function to the [TransportFactory] interface.
type TransportFactoryFunc func(ctx context.Context, URL string, protocols []string) (Transport, error)

var _ TransportFactory = TransportFactoryFunc(nil)

// NewTransport implements [TransportFactory].
func (f TransportFactoryFunc) NewTransport(ctx context.Context, URL string, protocols []string) (Transport, error) {
	return f(ctx, URL, protocols)
}

// ResolveTransportFactory selects the [TransportFactory] to use.
//
// The explicit factory wins over the fallback, which is the ambient default
// configured through [Config.DefaultTransport]. The boolean is false when
// neither is available.
func ResolveTransportFactory(explicit, fallback TransportFactory) (TransportFactory, bool) {
	switch {
	case explicit != nil:
		return explicit, true
	case fallback != nil:
		return fallback, true
	default:
		return nil, false
	}
}
