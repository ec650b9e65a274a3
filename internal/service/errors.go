package service

import (
	"errors"
)

var (
	ErrForbidden        = errors.New("not authorized to access this goal")
	ErrActiveGoalExists = errors.New("you can only have one active goal at a time, please complete or archive your current goal first")
	ErrGoalNotActive    = errors.New("cannot check in on inactive goal")
	ErrNoActiveGoal     = errors.New("no active goal found")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationError(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}
