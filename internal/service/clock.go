package service

import "time"

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// SystemClock reads the wall clock in UTC.
var SystemClock Clock = systemClock{}

// UTCMidnight truncates t to the start of its UTC calendar day.
// Check-in days are always normalised through this function.
func UTCMidnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
