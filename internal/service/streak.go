package service

import (
	"math"
	"time"

	"github.com/onegoal/onegoal/internal/model"
)

// CalculateStreak counts consecutive check-in days ending at the most recent
// check-in. dates must be sorted most recent first. A most recent check-in
// older than yesterday breaks the streak.
func CalculateStreak(dates []time.Time, today time.Time) int {
	if len(dates) == 0 {
		return 0
	}

	today = UTCMidnight(today)
	last := UTCMidnight(dates[0])

	daysSince := int(math.Floor(today.Sub(last).Hours() / 24))
	if daysSince > 1 {
		return 0
	}

	streak := 0
	expected := last
	for _, date := range dates {
		if !UTCMidnight(date).Equal(expected) {
			break
		}
		streak++
		expected = expected.AddDate(0, 0, -1)
	}

	return streak
}

// CalculateStats folds check-ins into totals, the rounded mean progress and
// a mood histogram. Check-ins without a mood are left out of the histogram.
func CalculateStats(checkIns []*model.CheckIn) model.CheckInStats {
	stats := model.CheckInStats{
		MoodDistribution: map[string]int{},
	}

	if len(checkIns) == 0 {
		return stats
	}

	sum := 0
	for _, checkIn := range checkIns {
		sum += checkIn.Progress
		if checkIn.Mood != "" {
			stats.MoodDistribution[checkIn.Mood]++
		}
	}

	stats.TotalCheckIns = len(checkIns)
	stats.AvgProgress = roundHalfUp(float64(sum) / float64(len(checkIns)))
	return stats
}

// roundHalfUp rounds .5 towards positive infinity.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
