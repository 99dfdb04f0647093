package domain

import "time"

// Layout is the wall-clock format accepted and printed by the CLI.
const Layout = "2006-01-02 15:04"

// Naive drops the location of t and keeps its wall clock. The result is
// tagged UTC so that two naive values compare by wall clock alone.
func Naive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// ParseNaive parses a Layout-formatted wall-clock time.
func ParseNaive(value string) (time.Time, error) {
	return time.ParseInLocation(Layout, value, time.UTC)
}

// Now returns the current local wall clock as a naive time.
func Now() time.Time {
	return Naive(time.Now())
}
