// SPDX-License-Identifier: GPL-3.0-or-later

package wampc

import (
	"log/slog"
	"time"
)

// CheckSerializer checks whether transport can carry the messages of serializer.
//
// Call it once the transport is open: when the transport implements
// [ReadyNotifier], after Ready is closed. The checks are, in order:
//
//  1. the transport opened without errors, otherwise [StatusTransportError];
//
//  2. the transport supports the framing the serializer requires,
//     otherwise [StatusInvalidSerializerType];
//
//  3. if the transport implements [SubprotocolReporter] and the router
//     selected a subprotocol, it is the one of the serializer, otherwise
//     [StatusNoSerializerAvailable].
func CheckSerializer(transport Transport, serializer Serializer) OpStatus {
	name, _ := checkSerializer(transport, serializer)
	return MustLookupStatus(name)
}

// checkSerializer is like [CheckSerializer] but also returns the error
// that prevented the transport from opening.
func checkSerializer(transport Transport, serializer Serializer) (StatusName, error) {
	if notifier, ok := transport.(ReadyNotifier); ok {
		if err := notifier.Err(); err != nil {
			return StatusTransportError, err
		}
	}

	if !transport.SupportsFraming(serializer.Framing()) {
		return StatusInvalidSerializerType, nil
	}

	if reporter, ok := transport.(SubprotocolReporter); ok {
		if got := reporter.Subprotocol(); got != "" && got != Subprotocol(serializer) {
			return StatusNoSerializerAvailable, nil
		}
	}

	return StatusSuccess, nil
}

// scheduleSerializerCheck arranges for [CheckSerializer] to run without
// blocking the caller: on transport readiness when the transport implements
// [ReadyNotifier], otherwise after [Config.CheckDelay].
func (g *SessionGate) scheduleSerializerCheck(transport Transport, serializer Serializer) {
	g.wg.Add(1)
	if notifier, ok := transport.(ReadyNotifier); ok {
		go func() {
			defer g.wg.Done()
			select {
			case <-notifier.Ready():
				g.finishSerializerCheck(transport, serializer)
			case <-g.done:
				// closed before the transport opened
			}
		}()
		return
	}
	timer := time.AfterFunc(g.checkDelay, func() {
		defer g.wg.Done()
		g.finishSerializerCheck(transport, serializer)
	})
	g.mu.Lock()
	g.timer = timer
	g.mu.Unlock()
}

func (g *SessionGate) finishSerializerCheck(transport Transport, serializer Serializer) {
	if g.isClosed() {
		return
	}
	t0 := g.timeNow()
	g.logger.Info(
		"serializerCheckStart",
		slog.String("gateID", g.id),
		slog.String("serializer", serializer.Protocol()),
		slog.String("serializerFraming", serializer.Framing().String()),
		slog.Time("t", t0),
	)

	name, err := checkSerializer(transport, serializer)
	next := StateEstablishing
	switch name {
	case StatusSuccess:
	case StatusTransportError:
		next = StateTransportError
	default:
		next = StateSerializerError
	}
	applied := g.transition(StateAwaitingTransport, next, name)

	status := MustLookupStatus(name)
	g.logger.Info(
		"serializerCheckDone",
		slog.Bool("applied", applied),
		slog.Any("err", err),
		slog.String("errClass", g.errClassifier.Classify(err)),
		slog.String("gateID", g.id),
		slog.String("gateState", next.String()),
		slog.String("serializer", serializer.Protocol()),
		slog.Int("statusCode", status.Code),
		slog.String("statusDescription", status.Description),
		slog.Time("t0", t0),
		slog.Time("t", g.timeNow()),
	)

	// Abort establishment: nothing else will be sent on this transport.
	if applied && next != StateEstablishing {
		g.abort()
	}
}
