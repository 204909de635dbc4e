package tracker

import "time"

// Estimator picks the dt fed to the filter for each processed sample.
type Estimator struct {
	now  func() time.Time
	last time.Time
	seen bool
}

// NewEstimator returns an Estimator reading wall-clock time from now.
// A nil now uses time.Now.
func NewEstimator(now func() time.Time) *Estimator {
	if now == nil {
		now = time.Now
	}
	return &Estimator{now: now}
}

// Next returns the hint when it is positive, else the time since the previous
// sample, else FallbackDT. The sample time is recorded on every call.
func (e *Estimator) Next(hint float64) float64 {
	now := e.now()
	var dt float64
	switch {
	case hint > 0:
		dt = hint
	case e.seen:
		dt = now.Sub(e.last).Seconds()
	default:
		dt = FallbackDT
	}
	e.last = now
	e.seen = true
	return dt
}

// LastSample reports the time of the most recent sample, if any.
func (e *Estimator) LastSample() (time.Time, bool) {
	return e.last, e.seen
}
