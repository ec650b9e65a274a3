package model

import (
	"time"
)

const (
	MoodGreat      = "great"
	MoodGood       = "good"
	MoodOkay       = "okay"
	MoodStruggling = "struggling"
)

type CheckIn struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	GoalID    string    `db:"goal_id" json:"goalId"`
	Date      time.Time `db:"date" json:"date"` // UTC midnight of the check-in day
	Progress  int       `db:"progress" json:"progress"`
	Note      string    `db:"note" json:"note,omitempty"`
	Mood      string    `db:"mood" json:"mood,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

func ValidMood(mood string) bool {
	switch mood {
	case MoodGreat, MoodGood, MoodOkay, MoodStruggling:
		return true
	}
	return false
}

type CheckInStats struct {
	TotalCheckIns    int            `json:"totalCheckIns"`
	AvgProgress      int            `json:"avgProgress"`
	MoodDistribution map[string]int `json:"moodDistribution"`
}
