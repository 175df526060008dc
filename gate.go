// SPDX-License-Identifier: GPL-3.0-or-later

package wampc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bassosimone/runtimex"
)

// ErrNilTransport indicates a [TransportFactory] returning neither a transport nor an error.
var ErrNilTransport = errors.New("wampc: transport factory returned nil transport")

// SessionGate guards WAMP session establishment.
//
// [NewSessionGate] validates the [ClientConfig] synchronously and, on
// success, constructs the transport and schedules the asynchronous
// serializer check. The outcome is observed by polling [SessionGate.OpStatus]
// or by waiting on [SessionGate.Done].
//
// The methods are safe for concurrent use.
type SessionGate struct {
	cancel        context.CancelFunc
	checkDelay    time.Duration
	ctx           context.Context
	done          chan struct{}
	errClassifier ErrClassifier
	id            string
	logger        SLogger
	timeNow       func() time.Time
	wg            sync.WaitGroup

	// mu protects the fields below.
	mu         sync.Mutex
	closed     bool
	serializer Serializer
	state      GateState
	status     OpStatus
	timer      *time.Timer
	transport  Transport
}

// NewSessionGate validates client and starts establishing a session.
//
// The cfg argument contains the common configuration. Its DefaultTransport
// is the ambient transport used when client does not configure one.
//
// The logger argument is the [SLogger] to use for structured logging.
//
// Misconfiguration never causes an error: the gate is returned in
// [StateConfigError] with the failing status. The error is non-nil only
// when the [TransportFactory] fails to construct the transport.
//
// The ctx bounds the lifetime of the gate and of its transport.
func NewSessionGate(ctx context.Context, cfg *Config, client *ClientConfig, logger SLogger) (*SessionGate, error) {
	runtimex.Assert(cfg != nil)
	ctx, cancel := context.WithCancel(ctx)
	g := &SessionGate{
		cancel:        cancel,
		checkDelay:    cfg.CheckDelay,
		ctx:           ctx,
		done:          make(chan struct{}),
		errClassifier: cfg.ErrClassifier,
		id:            NewGateID(),
		logger:        logger,
		timeNow:       cfg.TimeNow,
		state:         StateUninitialized,
		status:        MustLookupStatus(StatusSuccess),
	}

	g.transition(StateUninitialized, StateValidating, StatusSuccess)
	name, factory := g.validate(client, cfg.DefaultTransport)
	switch {
	case name != StatusSuccess:
		g.transition(StateValidating, StateConfigError, name)
		return g, nil
	case factory == nil:
		g.transition(StateValidating, StateIdle, StatusSuccess)
		return g, nil
	}

	serializer := client.serializer()
	transport, err := g.newTransport(factory, client.URL, []string{Subprotocol(serializer)})
	if err == nil && transport == nil {
		err = ErrNilTransport
	}
	if err != nil {
		cancel()
		return nil, fmt.Errorf("wampc: cannot create transport: %w", err)
	}

	g.mu.Lock()
	g.serializer = serializer
	g.transport = transport
	g.mu.Unlock()
	g.transition(StateValidating, StateAwaitingTransport, StatusSuccess)
	g.scheduleSerializerCheck(transport, serializer)
	return g, nil
}

func (g *SessionGate) validate(client *ClientConfig, fallback TransportFactory) (StatusName, TransportFactory) {
	var URL, realm string
	if client != nil {
		URL, realm = client.URL, client.Realm
	}
	t0 := g.timeNow()
	g.logger.Info(
		"gateValidateStart",
		slog.String("gateID", g.id),
		slog.String("realm", realm),
		slog.String("routerUrl", URL),
		slog.Time("t", t0),
	)

	name, factory := validate(client, fallback)

	status := MustLookupStatus(name)
	g.logger.Info(
		"gateValidateDone",
		slog.String("gateID", g.id),
		slog.String("realm", realm),
		slog.String("routerUrl", URL),
		slog.Int("statusCode", status.Code),
		slog.String("statusDescription", status.Description),
		slog.Time("t0", t0),
		slog.Time("t", g.timeNow()),
	)
	return name, factory
}

func (g *SessionGate) newTransport(factory TransportFactory, URL string, protocols []string) (Transport, error) {
	t0 := g.timeNow()
	g.logger.Info(
		"transportCreateStart",
		slog.String("gateID", g.id),
		slog.String("routerUrl", URL),
		slog.Any("wsSubprotocols", protocols),
		slog.Time("t", t0),
	)

	transport, err := factory.NewTransport(g.ctx, URL, protocols)

	g.logger.Info(
		"transportCreateDone",
		slog.Any("err", err),
		slog.String("errClass", g.errClassifier.Classify(err)),
		slog.String("gateID", g.id),
		slog.String("routerUrl", URL),
		slog.Any("wsSubprotocols", protocols),
		slog.Time("t0", t0),
		slog.Time("t", g.timeNow()),
	)
	return transport, err
}

// transition is the only writer of state and status.
//
// It moves from the given state to the next one, setting the status to
// the registry entry called name, and reports whether it did so. It does
// nothing when the gate is closed or is no longer in the from state.
func (g *SessionGate) transition(from, to GateState, name StatusName) bool {
	status := MustLookupStatus(name)
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed || g.state != from {
		return false
	}
	g.state, g.status = to, status
	if to.IsFinal() {
		close(g.done)
	}
	return true
}

// abort closes the transport after a negative serializer check.
func (g *SessionGate) abort() {
	g.mu.Lock()
	transport := g.transport
	g.transport = nil
	g.mu.Unlock()
	if transport == nil {
		return
	}

	t0 := g.timeNow()
	g.logger.Info(
		"transportCloseStart",
		slog.String("gateID", g.id),
		slog.Time("t", t0),
	)

	err := transport.Close()

	g.logger.Info(
		"transportCloseDone",
		slog.Any("err", err),
		slog.String("errClass", g.errClassifier.Classify(err)),
		slog.String("gateID", g.id),
		slog.Time("t0", t0),
		slog.Time("t", g.timeNow()),
	)
}

func (g *SessionGate) isClosed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.closed
}

// ID returns the gate ID attached to every log event.
func (g *SessionGate) ID() string {
	return g.id
}

// OpStatus returns the latest known status without blocking.
//
// While the gate is in [StateAwaitingTransport] the status optimistically
// reads [StatusSuccess]; wait on [SessionGate.Done] for the final value.
func (g *SessionGate) OpStatus() OpStatus {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

// State returns the current [GateState].
func (g *SessionGate) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Done returns a channel closed when the gate reaches a final state or is closed.
func (g *SessionGate) Done() <-chan struct{} {
	return g.done
}

// Transport returns the transport or nil when there is none or it has
// been closed, either by [SessionGate.Close] or by a failed serializer check.
func (g *SessionGate) Transport() Transport {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.transport
}

// Serializer returns the serializer or nil when no transport was constructed.
func (g *SessionGate) Serializer() Serializer {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.serializer
}

// Close tears down the gate and closes the transport.
//
// A pending serializer check becomes a no-op and a running one is waited
// for. The status is left unchanged. Calling Close more than once is safe.
func (g *SessionGate) Close() error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return nil
	}
	g.closed = true
	if !g.state.IsFinal() {
		close(g.done)
	}
	timer := g.timer
	transport := g.transport
	g.transport = nil
	g.mu.Unlock()

	if timer != nil && timer.Stop() {
		g.wg.Done()
	}
	g.cancel()
	var err error
	if transport != nil {
		err = transport.Close()
	}
	g.wg.Wait()
	return err
}
