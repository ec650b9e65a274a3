package validation

import (
	"errors"
	"fmt"
	"strings"
)

const (
	MinPasswordLength = 12
	// bcrypt ignores everything past 72 bytes
	MaxPasswordLength = 72
)

var commonPasswordPatterns = []string{
	"password", "123456", "qwerty", "admin", "letmein",
	"welcome", "monkey", "dragon", "master", "sunshine",
	"onegoal", "iloveyou",
}

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}

	if len(password) > MaxPasswordLength {
		return fmt.Errorf("password must not exceed %d characters", MaxPasswordLength)
	}

	if strings.TrimSpace(password) == "" {
		return errors.New("password cannot be blank")
	}

	lower := strings.ToLower(password)
	for _, pattern := range commonPasswordPatterns {
		if strings.Contains(lower, pattern) {
			return errors.New("password is too common, please choose a stronger one")
		}
	}

	return nil
}
