package download

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSpeedMeter_Sample(t *testing.T) {
	start := time.Unix(1000, 0)
	m := NewSpeedMeter(start)

	assert.Equal(t, 250.0, m.Sample(250, start.Add(time.Second)))
	assert.Equal(t, 500.0, m.Sample(750, start.Add(2*time.Second)))
	assert.Equal(t, 1000.0, m.Sample(1000, start.Add(2250*time.Millisecond)))
}

func TestSpeedMeter_ZeroElapsedIsZero(t *testing.T) {
	start := time.Unix(1000, 0)
	m := NewSpeedMeter(start)

	assert.Equal(t, 0.0, m.Sample(100, start))
	// The reference point still moves, so the next window starts from 100 bytes.
	assert.Equal(t, 100.0, m.Sample(200, start.Add(time.Second)))
}

func TestSpeedMeter_NeverNegative(t *testing.T) {
	start := time.Unix(1000, 0)
	m := NewSpeedMeter(start)

	m.Sample(500, start.Add(time.Second))
	assert.Equal(t, 0.0, m.Sample(100, start.Add(2*time.Second)), "shrinking byte count")
	assert.Equal(t, 0.0, m.Sample(200, start.Add(time.Second)), "clock going backwards")
}
