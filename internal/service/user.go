package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/onegoal/onegoal/internal/model"
	"github.com/onegoal/onegoal/internal/repository"
	"github.com/onegoal/onegoal/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCurrentPassword = errors.New("current password is incorrect")
	ErrPasswordlessAccount    = errors.New("accounts created with Google cannot change a password")
)

type UserService struct {
	userRepository repository.UserRepository
	fileService    *FileService
	mailer         Mailer
}

func NewUserService(
	userRepository repository.UserRepository,
	fileService *FileService,
	mailer Mailer,
) *UserService {
	return &UserService{
		userRepository: userRepository,
		fileService:    fileService,
		mailer:         mailer,
	}
}

func (s *UserService) ByID(id string) (*model.User, error) {
	return s.userRepository.ByID(id)
}

func (s *UserService) UpdateProfile(userID, firstName, lastName string) (*model.User, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)

	err := validationError("firstName", validation.ValidateName(firstName))
	if err != nil {
		return nil, err
	}
	err = validationError("lastName", validation.ValidateName(lastName))
	if err != nil {
		return nil, err
	}

	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return nil, err
	}

	user.FirstName = firstName
	user.LastName = lastName
	user.Name = strings.TrimSpace(firstName + " " + lastName)

	err = s.userRepository.Update(user)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}

func (s *UserService) UpdatePassword(userID, currentPassword, newPassword string) error {
	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	if !user.HasPassword() {
		return ErrPasswordlessAccount
	}

	err = bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(currentPassword))
	if err != nil {
		return ErrInvalidCurrentPassword
	}

	err = validationError("newPassword", validation.ValidatePassword(newPassword))
	if err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	hashStr := string(hashedPassword)
	user.PasswordHash = &hashStr

	err = s.userRepository.Update(user)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	slog.Info("password updated", "user_id", userID)
	return nil
}

// DeleteAccount removes the user after confirming the password. Accounts
// without a password (Google sign-in) skip the confirmation.
func (s *UserService) DeleteAccount(userID, password string) error {
	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.HasPassword() {
		err = bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password))
		if err != nil {
			return ErrInvalidCurrentPassword
		}
	}

	return s.remove(user)
}

// remove deletes stored files first, then the user row. Goals, check-ins,
// notification logs and file records go with it through ON DELETE CASCADE.
func (s *UserService) remove(user *model.User) error {
	if s.fileService != nil {
		err := s.fileService.DeleteAllUserFilesFromStorage(user.ID)
		if err != nil {
			slog.Warn("failed to delete user files from storage", "user_id", user.ID, "error", err)
		}
	}

	err := s.userRepository.Delete(user.ID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if s.mailer != nil {
		err = s.mailer.SendAccountDeleted(user.Email, user.DisplayName())
		if err != nil {
			slog.Warn("failed to send account deleted email", "user_id", user.ID, "error", err)
		}
	}

	slog.Info("user deleted", "user_id", user.ID)
	return nil
}
