package validation

import (
	"errors"
	"time"
	"unicode/utf8"

	"github.com/onegoal/onegoal/internal/model"
)

const (
	MaxGoalTitleLength       = 100
	MaxGoalDescriptionLength = 500
	MaxNoteLength            = 500
)

func ValidateGoalTitle(title string) error {
	if title == "" {
		return errors.New("goal title is required")
	}
	if utf8.RuneCountInString(title) > MaxGoalTitleLength {
		return errors.New("goal title cannot exceed 100 characters")
	}
	return nil
}

func ValidateGoalDescription(description string) error {
	if utf8.RuneCountInString(description) > MaxGoalDescriptionLength {
		return errors.New("description cannot exceed 500 characters")
	}
	return nil
}

func ValidateDeadline(deadline time.Time) error {
	if deadline.IsZero() {
		return errors.New("goal deadline is required")
	}
	return nil
}

func ValidateGoalStatus(status string) error {
	if !model.ValidGoalStatus(status) {
		return errors.New("status must be one of active, completed, archived")
	}
	return nil
}

func ValidateProgress(progress int) error {
	if progress < 0 || progress > 100 {
		return errors.New("progress must be between 0 and 100")
	}
	return nil
}

func ValidateNote(note string) error {
	if utf8.RuneCountInString(note) > MaxNoteLength {
		return errors.New("note cannot exceed 500 characters")
	}
	return nil
}

// ValidateMood accepts an empty mood, since mood is optional.
func ValidateMood(mood string) error {
	if mood == "" || model.ValidMood(mood) {
		return nil
	}
	return errors.New("mood must be one of great, good, okay, struggling")
}

// ParseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err == nil {
		return t.UTC(), nil
	}
	t, err = time.Parse(time.DateOnly, value)
	if err == nil {
		return t, nil
	}
	return time.Time{}, errors.New("invalid date, expected YYYY-MM-DD or RFC 3339")
}
