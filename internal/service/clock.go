package service

import "time"

// Clock is the time source for lifecycle stamps and live cost reads.
type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// FixedClock always returns t. Handy for tests and for replaying a moment.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}
