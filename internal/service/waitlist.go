package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/onegoal/onegoal/internal/model"
	"github.com/onegoal/onegoal/internal/repository"
	"github.com/onegoal/onegoal/internal/validation"
)

var ErrAlreadyOnWaitlist = errors.New("this email is already on the waitlist")

type WaitlistService struct {
	repo  repository.WaitlistRepository
	clock Clock
}

func NewWaitlistService(repo repository.WaitlistRepository, clock Clock) *WaitlistService {
	return &WaitlistService{repo: repo, clock: clock}
}

func (s *WaitlistService) Join(email, name string) (*model.WaitlistEntry, error) {
	email = validation.NormalizeEmail(email)
	name = strings.TrimSpace(name)

	err := validationError("email", validation.ValidateEmail(email))
	if err != nil {
		return nil, err
	}
	if name != "" {
		err = validationError("name", validation.ValidateName(name))
		if err != nil {
			return nil, err
		}
	}

	entry := &model.WaitlistEntry{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      name,
		CreatedAt: s.clock.Now(),
	}

	err = s.repo.Create(entry)
	if errors.Is(err, repository.ErrAlreadyOnWaitlist) {
		return nil, ErrAlreadyOnWaitlist
	}
	if err != nil {
		return nil, fmt.Errorf("failed to join waitlist: %w", err)
	}

	slog.Info("waitlist entry added", "entry_id", entry.ID)
	return entry, nil
}

func (s *WaitlistService) Entries() ([]*model.WaitlistEntry, error) {
	return s.repo.Entries()
}

func (s *WaitlistService) Remove(email string) error {
	return s.repo.DeleteByEmail(validation.NormalizeEmail(email))
}
