package services

import "time"

// Clock returns the current time
type Clock func() time.Time

// SystemClock is the wall clock in UTC, truncated to the second stored by
// the database.
func SystemClock() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// FixedClock returns a clock frozen at t.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}
