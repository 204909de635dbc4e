package session

import "airpen/protocol"

type Conn interface {
	Send([]byte) error
	Close() error
}

// ConnID identifies an attached connection for as long as it stays attached.
type ConnID string

// Recorder receives every broadcast point and reset. Implementations must
// not block.
type Recorder interface {
	RecordPoint(protocol.Point)
	RecordReset()
}

// attach: issued once per accepted connection
type attach struct {
	ID    ConnID
	Conn  Conn
	Reply chan<- int
}

// detach: issued on close, transport error or protocol violation
type detach struct {
	ID ConnID
}

// dispatch: one raw inbound frame
type dispatch struct {
	ID      ConnID
	Payload []byte
}

type query struct {
	Reply chan<- Stats
}
