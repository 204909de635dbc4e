package tracker

// State is the one pen shared by every viewer.
type State struct {
	X, Y   float64
	VX, VY float64

	StationaryFrames int
}

// Snapshot is what a single Update integrated, including the deadbanded
// acceleration and the clamped dt.
type Snapshot struct {
	X, Y   float64
	VX, VY float64
	AX, AY float64
	DT     float64
}
