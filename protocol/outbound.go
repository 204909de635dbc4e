package protocol

// Status is sent once to a newly attached connection.
type Status struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Clients int    `json:"clients"`
}

// Point is broadcast after every processed imu sample.
type Point struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	VX   float64 `json:"vx"`
	VY   float64 `json:"vy"`
	AX   float64 `json:"ax"`
	AY   float64 `json:"ay"`
	DT   float64 `json:"dt"`
}

// ResetNotice is broadcast after the pen was reset.
type ResetNotice struct {
	Type string `json:"type"`
}

type Pong struct {
	Type string `json:"type"`
}

func NewStatus(message string, clients int) Status {
	return Status{Type: MsgStatus, Message: message, Clients: clients}
}

func NewPoint(x, y, vx, vy, ax, ay, dt float64) Point {
	return Point{Type: MsgPoint, X: x, Y: y, VX: vx, VY: vy, AX: ax, AY: ay, DT: dt}
}

func NewResetNotice() ResetNotice { return ResetNotice{Type: MsgReset} }

func NewPong() Pong { return Pong{Type: MsgPong} }
