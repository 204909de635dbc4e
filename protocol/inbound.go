package protocol

// Inbound is one of Imu, Reset or Ping.
type Inbound interface {
	inbound()
}

// Imu is a raw acceleration sample. DT is the sender's hint in seconds;
// zero means none was given.
type Imu struct {
	Ax float64
	Ay float64
	DT float64
}

type Reset struct{}

type Ping struct{}

func (Imu) inbound()   {}
func (Reset) inbound() {}
func (Ping) inbound()  {}
