package game

import "time"

// Timer is a pending deferred call.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. Rooms use it for vote timeouts and queue
// countdowns; tests substitute a manual implementation.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type clockScheduler struct{}

func (clockScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// maxDelay caps deferred calls; larger float seconds would overflow Duration.
const maxDelay = 24 * time.Hour

func seconds(v float64) time.Duration {
	if v <= 0 {
		return 0
	}
	if v >= maxDelay.Seconds() {
		return maxDelay
	}
	return time.Duration(v * float64(time.Second))
}
