package recorder

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"airpen/logging"
	"airpen/protocol"
)

type entry struct {
	point protocol.Point
	reset bool
	at    time.Time
}

// Recorder appends broadcast points to the database from its own goroutine,
// so the coordinator never waits on disk.
type Recorder struct {
	db      *DB
	session string
	queue   chan entry
	wg      sync.WaitGroup
	once    sync.Once

	mu      sync.Mutex
	stopped bool
}

// New starts a recorder for a fresh session. buffer bounds the number of
// points waiting to be written; extra points are dropped.
func New(db *DB, buffer int) *Recorder {
	if buffer <= 0 {
		buffer = 1024
	}
	r := &Recorder{
		db:      db,
		session: uuid.NewString(),
		queue:   make(chan entry, buffer),
	}
	r.wg.Add(1)
	go r.run()
	return r
}

func (r *Recorder) Session() string { return r.session }

func (r *Recorder) RecordPoint(p protocol.Point) {
	r.enqueue(entry{point: p, at: time.Now()})
}

func (r *Recorder) RecordReset() {
	r.enqueue(entry{reset: true, at: time.Now()})
}

func (r *Recorder) enqueue(e entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	select {
	case r.queue <- e:
	default:
		logging.Logf("recorder queue full, dropping sample")
	}
}

func (r *Recorder) run() {
	defer r.wg.Done()
	stroke, seq := 1, 0
	for e := range r.queue {
		if e.reset {
			stroke++
			continue
		}
		seq++
		p := e.point
		err := r.db.insertPoint(context.Background(), Row{
			Session: r.session, Stroke: stroke, Seq: seq,
			X: p.X, Y: p.Y, VX: p.VX, VY: p.VY, AX: p.AX, AY: p.AY, DT: p.DT,
			RecordedAt: e.at,
		})
		if err != nil {
			logging.Logf("failed to record point: %v", err)
		}
	}
}

// Close flushes queued points and stops the writer. The DB stays open.
func (r *Recorder) Close() error {
	r.once.Do(func() {
		r.mu.Lock()
		r.stopped = true
		close(r.queue)
		r.mu.Unlock()
		r.wg.Wait()
	})
	return nil
}
