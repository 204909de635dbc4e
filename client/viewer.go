package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"airpen/protocol"
)

const DefaultRetry = protocol.ReconnectIntervalSec * time.Second

var ErrQueueFull = errors.New("outgoing queue full")

// Viewer follows the shared pen from the outside, reconnecting after a fixed
// delay whenever the connection drops. Missed broadcasts are not replayed.
type Viewer struct {
	URL    string
	Retry  time.Duration
	Dialer *websocket.Dialer

	// Handle receives every decoded server message, plus a local Status
	// ("disconnected: ...") each time the connection is lost.
	Handle func(msg any)

	out chan []byte
}

func NewViewer(url string, handle func(msg any)) *Viewer {
	return &Viewer{
		URL:    url,
		Retry:  DefaultRetry,
		Dialer: websocket.DefaultDialer,
		Handle: handle,
		out:    make(chan []byte, 16),
	}
}

// Reset asks the server to reset the pen. It is sent on the current or next
// connection.
func (v *Viewer) Reset() error {
	b, err := protocol.Encode(protocol.NewResetNotice())
	if err != nil {
		return fmt.Errorf("encode reset: %w", err)
	}
	select {
	case v.out <- b:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run connects and reads until ctx is done.
func (v *Viewer) Run(ctx context.Context) error {
	for {
		err := v.session(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		v.emit(protocol.NewStatus(fmt.Sprintf("disconnected: %v", err), 0))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(v.Retry):
		}
	}
}

func (v *Viewer) session(ctx context.Context) error {
	conn, _, err := v.Dialer.DialContext(ctx, v.URL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	writeErr := make(chan error, 1)
	go func() {
		for {
			select {
			case b := <-v.out:
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					writeErr <- err
					_ = conn.Close()
					return
				}
			case <-done:
				return
			}
		}
	}()

	for {
		_, b, err := conn.ReadMessage()
		if err != nil {
			select {
			case werr := <-writeErr:
				return werr
			default:
			}
			return err
		}
		msg, err := protocol.DecodeOutbound(b)
		if err != nil {
			continue
		}
		v.emit(msg)
	}
}

func (v *Viewer) emit(msg any) {
	if v.Handle != nil {
		v.Handle(msg)
	}
}
