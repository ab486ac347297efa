package engine

import (
	"runtime"
	"time"
)

// Scheduler decides how the engine yields between batches. The variant
// is fixed at engine construction and never re-probed per batch.
type Scheduler interface {
	// Yield hands control back to the host between batches.
	Yield()
}

// IdleScheduler yields to the runtime scheduler and resumes as soon as
// the processor is idle again. It is the default.
type IdleScheduler struct{}

func (IdleScheduler) Yield() { runtime.Gosched() }

// DelayScheduler sleeps for a fixed duration between batches, for hosts
// where a cooperative yield is not enough to stay responsive.
type DelayScheduler struct {
	Delay time.Duration
}

func (s DelayScheduler) Yield() {
	d := s.Delay
	if d <= 0 {
		d = DefaultBatchDelay
	}
	time.Sleep(d)
}
