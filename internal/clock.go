package internal

import "time"

// Clock supplies capture timestamps
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

// Now returns the current time
func (SystemClock) Now() time.Time {
	return time.Now()
}

func nowMillis(c Clock) int64 {
	return c.Now().UnixMilli()
}
