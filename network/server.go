package network

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"airpen/logging"
	"airpen/session"
)

const DefaultOutbox = 64

// Server accepts viewer and sensor websockets and wires each one into the
// coordinator.
type Server struct {
	coord    *session.Coordinator
	upgrader websocket.Upgrader
	outbox   int

	mu    sync.Mutex
	conns map[*wsConn]struct{}
}

func NewServer(coord *session.Coordinator, outbox int) *Server {
	if outbox <= 0 {
		outbox = DefaultOutbox
	}
	return &Server{
		coord: coord,
		upgrader: websocket.Upgrader{
			// Phones and desktop viewers connect from anywhere on the LAN.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		outbox: outbox,
		conns:  make(map[*wsConn]struct{}),
	}
}

// Handler serves /healthz and upgrades every other path to a websocket.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/", s.ServeWS)
	return mux
}

func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Logf("upgrade: %v", err)
		return
	}

	wc := newWSConn(conn, s.outbox)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		wc.writeLoop()
	}()
	s.track(wc, true)
	defer s.track(wc, false)

	id, err := s.coord.Attach(wc)
	if err != nil {
		logging.Logf("attach: %v", err)
		wc.Close()
		<-writerDone
		return
	}
	defer func() {
		s.coord.Detach(id)
		wc.Close()
		<-writerDone
	}()

	err = wc.readLoop(func(b []byte) {
		s.coord.Dispatch(id, b)
	})
	if err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		select {
		case <-wc.closed:
		default:
			logging.Logf("read: %v", err)
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st, err := s.coord.Stats()
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "stopped"})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok", "clients": st.Clients})
}

func (s *Server) track(c *wsConn, add bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if add {
		s.conns[c] = struct{}{}
	} else {
		delete(s.conns, c)
	}
}

// closeAll closes every live websocket; http.Server.Shutdown does not touch
// hijacked connections.
func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.conns {
		c.Close()
	}
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Logf("AirPen server listening on ws://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.closeAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
