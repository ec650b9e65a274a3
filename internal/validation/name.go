package validation

import (
	"errors"
	"strings"

	"github.com/onegoal/onegoal/internal/model"
)

// ValidateName validates a first or last name
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return errors.New("name is required")
	}

	if len(trimmed) > 50 {
		return errors.New("name is too long (max 50 characters)")
	}

	return nil
}

func ValidateRole(role string) error {
	if role != model.RoleUser && role != model.RoleAdmin {
		return errors.New("invalid role")
	}
	return nil
}
