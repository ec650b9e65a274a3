package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/onegoal/onegoal/internal/model"
	"github.com/onegoal/onegoal/internal/repository"
	"github.com/onegoal/onegoal/internal/validation"
)

const (
	DefaultPageSize  = 20
	MaxPageSize      = 100
	RecentSignupDays = 7
)

var ErrCannotModifySelf = errors.New("admins cannot change or delete their own account here")

type UserList struct {
	Users []*model.User `json:"users"`
	model.Page
}

type GoalList struct {
	Goals []*model.GoalWithOwner `json:"goals"`
	model.Page
}

type AdminService struct {
	userRepo  repository.UserRepository
	goalRepo  repository.GoalRepository
	statsRepo repository.StatsRepository
	users     *UserService
	clock     Clock
}

func NewAdminService(
	userRepo repository.UserRepository,
	goalRepo repository.GoalRepository,
	statsRepo repository.StatsRepository,
	users *UserService,
	clock Clock,
) *AdminService {
	return &AdminService{
		userRepo:  userRepo,
		goalRepo:  goalRepo,
		statsRepo: statsRepo,
		users:     users,
		clock:     clock,
	}
}

func (s *AdminService) Stats() (*model.SystemStats, error) {
	since := s.clock.Now().AddDate(0, 0, -RecentSignupDays)
	return s.statsRepo.SystemStats(since)
}

func (s *AdminService) Users(page, limit int, search, role string) (*UserList, error) {
	page, limit = normalizePage(page, limit)

	if role != "" {
		err := validationError("role", validation.ValidateRole(role))
		if err != nil {
			return nil, err
		}
	}

	users, total, err := s.userRepo.Users(repository.UserFilter{
		Search: strings.TrimSpace(search),
		Role:   role,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return &UserList{Users: users, Page: model.NewPage(total, page, limit)}, nil
}

func (s *AdminService) Goals(page, limit int, status string) (*GoalList, error) {
	page, limit = normalizePage(page, limit)

	if status != "" {
		err := validationError("status", validation.ValidateGoalStatus(status))
		if err != nil {
			return nil, err
		}
	}

	goals, total, err := s.goalRepo.GoalsWithOwners(status, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}

	now := s.clock.Now()
	for _, goal := range goals {
		goal.DaysRemaining = goal.DaysUntilDeadline(now)
	}

	return &GoalList{Goals: goals, Page: model.NewPage(total, page, limit)}, nil
}

func (s *AdminService) UpdateUserRole(adminID, userID, role string) (*model.User, error) {
	if adminID == userID {
		return nil, ErrCannotModifySelf
	}

	err := validationError("role", validation.ValidateRole(role))
	if err != nil {
		return nil, err
	}

	err = s.userRepo.UpdateRole(userID, role)
	if err != nil {
		return nil, err
	}

	slog.Info("user role updated", "admin_id", adminID, "user_id", userID, "role", role)
	return s.userRepo.ByID(userID)
}

func (s *AdminService) DeleteUser(adminID, userID string) error {
	if adminID == userID {
		return ErrCannotModifySelf
	}

	user, err := s.userRepo.ByID(userID)
	if err != nil {
		return err
	}

	slog.Info("admin deleting user", "admin_id", adminID, "user_id", userID)
	return s.users.remove(user)
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}
