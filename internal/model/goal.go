package model

import (
	"math"
	"time"
)

const (
	GoalStatusActive    = "active"
	GoalStatusCompleted = "completed"
	GoalStatusArchived  = "archived"
)

type Goal struct {
	ID          string     `db:"id" json:"id"`
	UserID      string     `db:"user_id" json:"userId"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Deadline    time.Time  `db:"deadline" json:"deadline"`
	Status      string     `db:"status" json:"status"`
	Progress    int        `db:"progress" json:"progress"`
	CompletedAt *time.Time `db:"completed_at" json:"completedAt,omitempty"`
	ArchivedAt  *time.Time `db:"archived_at" json:"archivedAt,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`

	// Computed fields (not in database)
	DaysRemaining int `db:"-" json:"daysRemaining"`
}

func ValidGoalStatus(status string) bool {
	switch status {
	case GoalStatusActive, GoalStatusCompleted, GoalStatusArchived:
		return true
	}
	return false
}

func (g *Goal) IsActive() bool {
	return g.Status == GoalStatusActive
}

// DaysUntilDeadline rounds up partial days, so a deadline later today counts as 1.
func (g *Goal) DaysUntilDeadline(now time.Time) int {
	diff := g.Deadline.Sub(now)
	return int(math.Ceil(diff.Hours() / 24))
}

// GoalWithOwner is a goal joined with its owner's contact details.
type GoalWithOwner struct {
	Goal
	UserName  string `db:"user_name" json:"userName"`
	UserEmail string `db:"user_email" json:"userEmail"`
}
