package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airpen/logging"
	"airpen/network"
	"airpen/protocol"
	"airpen/session"
	"airpen/tracker"
)

func wsURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http")
}

func TestViewerReceivesStatusAndSendsReset(t *testing.T) {
	logging.SetLogger(nil)
	coord := session.New(tracker.DefaultConfig(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go coord.Run(ctx)

	ts := httptest.NewServer(network.NewServer(coord, 16).Handler())
	defer ts.Close()

	msgs := make(chan any, 16)
	v := NewViewer(wsURL(ts), func(msg any) { msgs <- msg })

	runErr := make(chan error, 1)
	go func() { runErr <- v.Run(ctx) }()

	select {
	case msg := <-msgs:
		assert.Equal(t, protocol.NewStatus("connected", 1), msg)
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for status")
	}

	require.NoError(t, v.Reset())
	select {
	case msg := <-msgs:
		assert.Equal(t, protocol.NewResetNotice(), msg)
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for reset broadcast")
	}

	cancel()
	select {
	case err := <-runErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatalf("viewer did not stop")
	}
}

func TestViewerReconnectsAfterDrop(t *testing.T) {
	var accepted atomic.Int32
	upgrader := websocket.Upgrader{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		accepted.Add(1)
		conn.Close()
	}))
	defer ts.Close()

	var disconnects atomic.Int32
	v := NewViewer(wsURL(ts), func(msg any) {
		if s, ok := msg.(protocol.Status); ok && strings.HasPrefix(s.Message, "disconnected") {
			disconnects.Add(1)
		}
	})
	v.Retry = 20 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	go v.Run(ctx)

	require.Eventually(t, func() bool {
		return accepted.Load() >= 3
	}, 2*time.Second, 10*time.Millisecond)
	assert.GreaterOrEqual(t, disconnects.Load(), int32(2))
}

func TestDefaultRetryIsOneSecond(t *testing.T) {
	assert.Equal(t, time.Second, DefaultRetry)
	assert.Equal(t, time.Second, NewViewer("ws://example", nil).Retry)
}

func TestResetQueuesResetFrame(t *testing.T) {
	v := NewViewer("ws://example", nil)
	require.NoError(t, v.Reset())
	assert.JSONEq(t, `{"type":"reset"}`, string(<-v.out))

	for i := 0; i < cap(v.out); i++ {
		require.NoError(t, v.Reset())
	}
	assert.ErrorIs(t, v.Reset(), ErrQueueFull)
}
