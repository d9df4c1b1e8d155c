package application

import "time"

// Clock interface supaya gampang ditest
type Clock interface {
	Now() time.Time
}

// SystemClock implementasi default, pakai time.Now()
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// NowOr returns c.Now(), or time.Now() when c is nil.
func NowOr(c Clock) time.Time {
	if c == nil {
		return time.Now()
	}
	return c.Now()
}
