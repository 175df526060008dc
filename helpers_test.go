// SPDX-License-Identifier: GPL-3.0-or-later

package wampc

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"

	"github.com/bassosimone/netstub"
	"github.com/bassosimone/slogstub"
)

const testRouterURL = "ws://fake.server.org/ws/"

// newCapturingLogger returns a logger that captures all log records. The
// returned function returns a snapshot of the messages captured so far and
// is safe to call while background goroutines are still logging.
func newCapturingLogger() (*slog.Logger, func() []string) {
	var (
		mu       sync.Mutex
		messages []string
	)
	handler := &slogstub.FuncHandler{
		EnabledFunc: func(ctx context.Context, level slog.Level) bool {
			return true
		},
		HandleFunc: func(ctx context.Context, record slog.Record) error {
			mu.Lock()
			messages = append(messages, record.Message)
			mu.Unlock()
			return nil
		},
	}
	snapshot := func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string{}, messages...)
	}
	return slog.New(handler), snapshot
}

// newMinimalConn returns a [*netstub.FuncConn] with only LocalAddrFunc and
// RemoteAddrFunc set, which is what [safeconn] needs during construction.
func newMinimalConn() *netstub.FuncConn {
	return &netstub.FuncConn{
		LocalAddrFunc:  func() net.Addr { return &net.TCPAddr{} },
		RemoteAddrFunc: func() net.Addr { return &net.TCPAddr{} },
	}
}

// mockTransport is a [Transport] that cannot signal readiness, like a
// transport whose capabilities are known at construction time.
type mockTransport struct {
	closeErr error
	closed   atomic.Int64
	framings []Framing
}

func newMockTransport(framings ...Framing) *mockTransport {
	return &mockTransport{framings: framings}
}

func (t *mockTransport) SupportsFraming(framing Framing) bool {
	for _, f := range t.framings {
		if f == framing {
			return true
		}
	}
	return false
}

func (t *mockTransport) Close() error {
	t.closed.Add(1)
	return t.closeErr
}

// mockReadyTransport is a [Transport] implementing [ReadyNotifier] and
// [SubprotocolReporter]. The test opens it by calling open.
type mockReadyTransport struct {
	*mockTransport
	err         error
	ready       chan struct{}
	subprotocol string
}

func newMockReadyTransport(framings ...Framing) *mockReadyTransport {
	return &mockReadyTransport{
		mockTransport: newMockTransport(framings...),
		ready:         make(chan struct{}),
	}
}

func (t *mockReadyTransport) open(subprotocol string, err error) {
	t.subprotocol, t.err = subprotocol, err
	close(t.ready)
}

func (t *mockReadyTransport) Ready() <-chan struct{} {
	return t.ready
}

func (t *mockReadyTransport) Err() error {
	return t.err
}

func (t *mockReadyTransport) Subprotocol() string {
	return t.subprotocol
}

// mockTransportFactory is a [TransportFactory] returning a fixed transport.
type mockTransportFactory struct {
	calls     int
	err       error
	protocols []string
	transport Transport
	url       string
}

func newMockTransportFactory(transport Transport) *mockTransportFactory {
	return &mockTransportFactory{transport: transport}
}

func (f *mockTransportFactory) NewTransport(ctx context.Context, URL string, protocols []string) (Transport, error) {
	f.calls++
	f.url = URL
	f.protocols = protocols
	if f.err != nil {
		return nil, f.err
	}
	return f.transport, nil
}

// badSerializer declares binary framing, like a custom serializer that
// the transport in use cannot carry.
type badSerializer struct {
	JSONSerializer
}

func (badSerializer) Protocol() string {
	return "bad"
}

func (badSerializer) Framing() Framing {
	return FramingBinary
}

// newTestConfig returns a [*Config] without ambient transport.
func newTestConfig() *Config {
	cfg := NewConfig()
	cfg.DefaultTransport = nil
	return cfg
}
