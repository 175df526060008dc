// SPDX-License-Identifier: GPL-3.0-or-later

// Package wampc validates WAMP client configurations and gates session establishment.
//
// # Session Gate
//
// A WAMP client needs a transport bound to a router URL, a realm and, when
// using challenge-response authentication, a complete set of auth options.
// [NewSessionGate] checks these options before anything is sent on the wire:
//
//	gate, err := wampc.NewSessionGate(ctx, cfg, &wampc.ClientConfig{
//		URL:   "ws://127.0.0.1:8080/ws",
//		Realm: "realm1",
//	}, logger)
//
// Misconfiguration is never reported through the error return value. The
// gate records an [OpStatus] that callers poll with [SessionGate.OpStatus]:
//
//   - [StatusNoWSOrURL] when no [TransportFactory] is configured or ambient,
//     or when [ClientConfig.URL] is empty
//   - [StatusNoRealm] when [ClientConfig.Realm] is empty
//   - [StatusNoCRACallbackOrID] when only some of the auth options are set
//
// The checks run in this order and the first failure wins. A [ClientConfig]
// with no options at all is valid: the gate is inert in [StateIdle].
//
// # Serializer Check
//
// Once the configuration is valid, the gate constructs the transport offering
// the subprotocol of the [Serializer] and returns immediately. The check of
// the transport against the serializer runs asynchronously:
//
//   - transports implementing [ReadyNotifier] are checked when Ready is closed
//   - other transports are checked after [Config.CheckDelay]
//
// Until then [SessionGate.OpStatus] optimistically reads [StatusSuccess].
// Wait on [SessionGate.Done] to observe the final outcome. When the check
// fails the gate closes the transport and records [StatusTransportError],
// [StatusInvalidSerializerType] or [StatusNoSerializerAvailable].
//
// The [GateState] returned by [SessionGate.State] tells apart the phases that
// share [StatusSuccess], e.g., [StateAwaitingTransport] and [StateEstablishing].
//
// # Transports
//
// [WebSocketTransportFactory] is the ambient transport returned by [NewConfig].
// It dials the router in the background using a pipeline of [Func] stages:
//
//   - [ConnectFunc]: dials the router TCP endpoint
//   - [ObserveConnFunc]: observes the connection for logging I/O operations
//   - [CancelWatchFunc]: closes the connection when the gate context is done
//
// Custom transports implement [Transport] and are plugged in through
// [ClientConfig.Transport] or [Config.DefaultTransport]. Transports that
// also carry messages after the handoff implement [MessageTransport].
// A factory returning neither a transport nor an error makes
// [NewSessionGate] fail with [ErrNilTransport].
//
// # Observability
//
// All operations support structured logging via [SLogger] (compatible with [log/slog]).
// By default, logging is disabled.
//
// Operations emit span events (*Start/*Done pairs) recording their lifecycle,
// timing and outcome. Gate events carry the gateID returned by [SessionGate.ID].
// Completion events (*Done) include t0 (start time), err, and errClass,
// the latter computed by the configured [ErrClassifier]. Per-I/O events are
// emitted at [slog.LevelDebug]; all other events use [slog.LevelInfo].
//
// # Context
//
// The context passed to [NewSessionGate] bounds the lifetime of the gate and of
// its transport. Cancelling it aborts a pending handshake and closes the router
// connection. [SessionGate.Close] does the same without touching the status.
package wampc
