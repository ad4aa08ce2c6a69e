package transform

import "time"

// RetryDelay returns the backoff before re-running a queued job after a
// transient failure on the given attempt (counted from 1). The schedule is
// 1, 4, 8, 16 minutes: attempt 1 is pinned to one minute so the wait is
// never zero, every later attempt waits 2^attempt minutes.
func RetryDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return time.Minute
	}
	return time.Duration(1<<uint(attempt)) * time.Minute
}

// ShouldRetry reports whether a transient failure on the given attempt may
// be rescheduled, or has exhausted the configured tries and must be raised
// as final.
func ShouldRetry(attempt, tries int) bool {
	return attempt < tries
}
