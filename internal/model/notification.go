package model

import "time"

const (
	NotificationCheckInReminder = "checkin_reminder"
	NotificationStreakMilestone = "streak_milestone"
	NotificationDeadlineWarning = "deadline_warning"
	NotificationGoalCompleted   = "goal_completed"
)

// NotificationLog records a delivered notification. (user_id, type, ref) is unique.
type NotificationLog struct {
	ID     string    `db:"id"`
	UserID string    `db:"user_id"`
	Type   string    `db:"type"`
	Ref    string    `db:"ref"`
	SentAt time.Time `db:"sent_at"`
}

// BatchResult summarises one notification batch run.
type BatchResult struct {
	Type    string `json:"type"`
	Sent    int    `json:"sent"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
}
