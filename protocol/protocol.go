package protocol

const (
	MsgImu    = "imu"
	MsgReset  = "reset"
	MsgPing   = "ping"
	MsgStatus = "status"
	MsgPoint  = "point"
	MsgPong   = "pong"
)

const (
	StatusConnected = "connected"

	DefaultPort = 8765
	// Viewers retry a dropped connection after this many seconds.
	ReconnectIntervalSec = 1
)
