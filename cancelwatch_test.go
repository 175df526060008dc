// SPDX-License-Identifier: GPL-3.0-or-later

package wampc

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bassosimone/netstub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newCountingConn returns a conn counting calls to Close.
func newCountingConn() (*netstub.FuncConn, *atomic.Int64) {
	count := &atomic.Int64{}
	conn := &netstub.FuncConn{
		CloseFunc: func() error {
			count.Add(1)
			return nil
		},
	}
	return conn, count
}

// Cancelling the context closes the connection.
func TestCancelWatchFuncClosesOnCancel(t *testing.T) {
	tests := []struct {
		// name describes the scenario.
		name string

		// cancelBefore cancels the context before calling Call.
		cancelBefore bool
	}{
		{name: "cancelled while watching", cancelBefore: false},
		{name: "already cancelled", cancelBefore: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, count := newCountingConn()
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			if tt.cancelBefore {
				cancel()
			}

			_, err := NewCancelWatchFunc().Call(ctx, conn)
			require.NoError(t, err)

			cancel()
			assert.Eventually(t, func() bool {
				return count.Load() == 1
			}, time.Second, 5*time.Millisecond)
		})
	}
}

// Closing the wrapper unregisters the watcher.
func TestCancelWatchFuncCloseUnregisters(t *testing.T) {
	conn, count := newCountingConn()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wrapped, err := NewCancelWatchFunc().Call(ctx, conn)
	require.NoError(t, err)
	require.NoError(t, wrapped.Close())

	cancel()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int64(1), count.Load())
}
