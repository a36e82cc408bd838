package download

import "time"

// SpeedMeter computes the transfer rate between two consecutive progress ticks.
type SpeedMeter struct {
	lastBytes int64
	lastTime  time.Time
}

// NewSpeedMeter starts measuring from zero bytes at start.
func NewSpeedMeter(start time.Time) *SpeedMeter {
	return &SpeedMeter{lastTime: start}
}

// Sample returns the rate in bytes per second since the previous sample and
// records (received, now) as the new reference point. The rate is 0 when no
// time has elapsed and never negative.
func (m *SpeedMeter) Sample(received int64, now time.Time) float64 {
	elapsed := now.Sub(m.lastTime).Seconds()
	delta := received - m.lastBytes

	m.lastBytes = received
	m.lastTime = now

	if elapsed <= 0 || delta <= 0 {
		return 0
	}
	return float64(delta) / elapsed
}
