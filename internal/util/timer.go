package util

import "time"

// Timer measures how long a unit of work took.
type Timer struct {
	start time.Time
	now   func() time.Time
}

// StartTimer starts a timer on the wall clock.
func StartTimer() Timer {
	return Timer{start: time.Now(), now: time.Now}
}

// Elapsed returns the duration since the timer started. A zero Timer reports 0.
func (t Timer) Elapsed() time.Duration {
	if t.start.IsZero() {
		return 0
	}
	now := t.now
	if now == nil {
		now = time.Now
	}
	return now().Sub(t.start)
}

// ElapsedMs returns Elapsed in whole milliseconds.
func (t Timer) ElapsedMs() int64 {
	return t.Elapsed().Milliseconds()
}
