package session

import "time"

// CancelFunc cancels a scheduled callback. Calling it after the callback
// has fired, or more than once, is harmless.
type CancelFunc func()

// Scheduler arms one-shot timers. It exists as a seam so tests can drive
// the proactive-refresh timer deterministically instead of sleeping.
type Scheduler interface {
	// Schedule runs fn after d elapses, on its own goroutine.
	Schedule(d time.Duration, fn func()) CancelFunc
}

// timerScheduler is the production Scheduler, backed by time.AfterFunc.
type timerScheduler struct{}

// NewTimerScheduler returns the wall-clock Scheduler.
func NewTimerScheduler() Scheduler {
	return timerScheduler{}
}

func (timerScheduler) Schedule(d time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}
