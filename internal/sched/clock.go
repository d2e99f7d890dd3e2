package sched

import (
	"time"

	"fortio.org/safecast"
)

// Clock paces ticks. The executor asks it to reach the end of each tick
// before running the tasks of that tick.
type Clock interface {
	NowMs() uint64
	SleepUntilMs(deadlineMs uint64)
}

// VirtualClock jumps straight to every deadline; runs are as fast as the
// scripts allow and fully reproducible.
type VirtualClock struct{ now uint64 }

func (c *VirtualClock) NowMs() uint64 { return c.now }

func (c *VirtualClock) SleepUntilMs(deadlineMs uint64) {
	c.now = max(c.now, deadlineMs)
}

// RealClock follows wall time from its creation, for --realtime runs.
type RealClock struct {
	start time.Time
	sleep func(time.Duration)
}

func NewRealClock() *RealClock { return &RealClock{start: time.Now(), sleep: time.Sleep} }

func (c *RealClock) NowMs() uint64 {
	ms, err := safecast.Conv[uint64](time.Since(c.start).Milliseconds())
	if err != nil {
		return 0
	}
	return ms
}

// SleepUntilMs returns at once when the run is already late.
func (c *RealClock) SleepUntilMs(deadlineMs uint64) {
	ms, err := safecast.Conv[int64](deadlineMs)
	if err != nil {
		return
	}
	if d := time.Until(c.start.Add(time.Duration(ms) * time.Millisecond)); d > 0 {
		c.sleep(d)
	}
}
