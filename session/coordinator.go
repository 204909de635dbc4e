package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"airpen/logging"
	"airpen/protocol"
	"airpen/tracker"
)

var ErrStopped = errors.New("coordinator stopped")

// Stats is a point-in-time view of the coordinator.
type Stats struct {
	Clients int
	State   tracker.State
}

// Coordinator owns the single shared pen, the sample clock and the set of
// attached connections. All of them are touched only by the Run goroutine.
type Coordinator struct {
	Inbox chan any

	// Recorder, when set before Run, sees every broadcast point and reset.
	Recorder Recorder

	tracker   *tracker.Tracker
	estimator *tracker.Estimator
	clients   map[ConnID]Conn
	quit      chan struct{}
	stopOnce  sync.Once
	done      chan struct{}
}

// New builds a coordinator around cfg. now is the wall clock used for dt
// estimation; nil means time.Now.
func New(cfg tracker.Config, now func() time.Time) *Coordinator {
	return &Coordinator{
		Inbox:     make(chan any, 256),
		tracker:   tracker.New(cfg),
		estimator: tracker.NewEstimator(now),
		clients:   make(map[ConnID]Conn),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() { close(c.quit) })
}

// Done is closed once Run has returned.
func (c *Coordinator) Done() <-chan struct{} { return c.done }

func (c *Coordinator) Run(ctx context.Context) {
	defer close(c.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.quit:
			return
		case cmd := <-c.Inbox:
			c.handleCommand(cmd)
		}
	}
}

// Attach adds conn to the active set and sends it a status message.
func (c *Coordinator) Attach(conn Conn) (ConnID, error) {
	id := ConnID(uuid.NewString())
	reply := make(chan int, 1)
	if err := c.post(attach{ID: id, Conn: conn, Reply: reply}); err != nil {
		return "", err
	}
	select {
	case <-reply:
		return id, nil
	case <-c.done:
		return "", ErrStopped
	}
}

// Detach removes id from the active set. Unknown or already removed ids are
// ignored.
func (c *Coordinator) Detach(id ConnID) {
	_ = c.post(detach{ID: id})
}

// Dispatch hands one raw inbound frame from id to the coordinator.
func (c *Coordinator) Dispatch(id ConnID, payload []byte) {
	_ = c.post(dispatch{ID: id, Payload: payload})
}

// Stats reports the client count and pen state as seen by the Run loop.
func (c *Coordinator) Stats() (Stats, error) {
	reply := make(chan Stats, 1)
	if err := c.post(query{Reply: reply}); err != nil {
		return Stats{}, err
	}
	select {
	case s := <-reply:
		return s, nil
	case <-c.done:
		return Stats{}, ErrStopped
	}
}

func (c *Coordinator) post(cmd any) error {
	select {
	case c.Inbox <- cmd:
		return nil
	case <-c.done:
		return ErrStopped
	}
}

func (c *Coordinator) handleCommand(cmd any) {
	switch m := cmd.(type) {
	case attach:
		c.clients[m.ID] = m.Conn
		n := len(c.clients)
		logging.Logf("client connected (%d total)", n)
		c.sendTo(m.ID, m.Conn, protocol.NewStatus(protocol.StatusConnected, n))
		m.Reply <- n
	case detach:
		if _, ok := c.clients[m.ID]; !ok {
			return
		}
		delete(c.clients, m.ID)
		logging.Logf("client disconnected (%d total)", len(c.clients))
	case dispatch:
		conn, ok := c.clients[m.ID]
		if !ok {
			return
		}
		c.handleFrame(m.ID, conn, m.Payload)
	case query:
		m.Reply <- Stats{Clients: len(c.clients), State: c.tracker.State()}
	}
}

func (c *Coordinator) handleFrame(id ConnID, conn Conn, payload []byte) {
	msg, err := protocol.DecodeInbound(payload)
	if err != nil {
		// dropped: no reply, no detach
		return
	}
	switch m := msg.(type) {
	case protocol.Imu:
		dt := c.estimator.Next(m.DT)
		s := c.tracker.Update(m.Ax, m.Ay, dt)
		p := protocol.NewPoint(s.X, s.Y, s.VX, s.VY, s.AX, s.AY, s.DT)
		c.broadcast(p)
		if c.Recorder != nil {
			c.Recorder.RecordPoint(p)
		}
	case protocol.Reset:
		c.tracker.Reset()
		c.broadcast(protocol.NewResetNotice())
		if c.Recorder != nil {
			c.Recorder.RecordReset()
		}
	case protocol.Ping:
		c.sendTo(id, conn, protocol.NewPong())
	}
}

// broadcast encodes msg once and offers it to every attached connection.
// Connections that fail are removed after the pass.
func (c *Coordinator) broadcast(msg any) {
	if len(c.clients) == 0 {
		return
	}
	b, err := protocol.Encode(msg)
	if err != nil {
		logging.Logf("encode broadcast: %v", err)
		return
	}

	ids := make([]ConnID, 0, len(c.clients))
	for id := range c.clients {
		ids = append(ids, id)
	}

	var failed []ConnID
	for _, id := range ids {
		if err := c.clients[id].Send(b); err != nil {
			failed = append(failed, id)
		}
	}
	for _, id := range failed {
		c.drop(id, "broadcast")
	}
}

func (c *Coordinator) sendTo(id ConnID, conn Conn, msg any) {
	b, err := protocol.Encode(msg)
	if err != nil {
		logging.Logf("encode reply: %v", err)
		return
	}
	if err := conn.Send(b); err != nil {
		c.drop(id, "send")
	}
}

func (c *Coordinator) drop(id ConnID, op string) {
	conn, ok := c.clients[id]
	if !ok {
		return
	}
	_ = conn.Close()
	delete(c.clients, id)
	logging.Logf("client dropped after %s failure (%d total)", op, len(c.clients))
}
