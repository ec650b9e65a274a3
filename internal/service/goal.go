package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/onegoal/onegoal/internal/metrics"
	"github.com/onegoal/onegoal/internal/model"
	"github.com/onegoal/onegoal/internal/repository"
	"github.com/onegoal/onegoal/internal/validation"
)

type GoalInput struct {
	Title       string
	Description string
	Deadline    time.Time
}

// GoalUpdate carries a partial update. Nil fields are left untouched.
type GoalUpdate struct {
	Title       *string
	Description *string
	Deadline    *time.Time
	Progress    *int
	Status      *string
}

type GoalService struct {
	repo     repository.GoalRepository
	userRepo repository.UserRepository
	mailer   Mailer
	clock    Clock
}

func NewGoalService(
	repo repository.GoalRepository,
	userRepo repository.UserRepository,
	mailer Mailer,
	clock Clock,
) *GoalService {
	return &GoalService{
		repo:     repo,
		userRepo: userRepo,
		mailer:   mailer,
		clock:    clock,
	}
}

func (s *GoalService) Create(userID string, in GoalInput) (*model.Goal, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)

	err := validateGoalFields(title, description, in.Deadline)
	if err != nil {
		return nil, err
	}

	_, err = s.repo.ActiveByUser(userID)
	if err == nil {
		return nil, ErrActiveGoalExists
	}
	if !errors.Is(err, repository.ErrGoalNotFound) {
		return nil, fmt.Errorf("failed to check active goal: %w", err)
	}

	now := s.clock.Now()
	goal := &model.Goal{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Deadline:    in.Deadline.UTC(),
		Status:      model.GoalStatusActive,
		Progress:    0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.repo.Create(goal)
	if errors.Is(err, repository.ErrActiveGoalExists) {
		return nil, ErrActiveGoalExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	metrics.GoalTransitions.WithLabelValues(model.GoalStatusActive).Inc()
	slog.Info("goal created", "user_id", userID, "goal_id", goal.ID)
	return s.decorate(goal), nil
}

func (s *GoalService) Goals(userID, status string) ([]*model.Goal, error) {
	if status != "" {
		err := validationError("status", validation.ValidateGoalStatus(status))
		if err != nil {
			return nil, err
		}
	}

	goals, err := s.repo.Goals(userID, status)
	if err != nil {
		return nil, err
	}

	for _, goal := range goals {
		s.decorate(goal)
	}
	return goals, nil
}

// ActiveGoal returns the user's active goal, or nil when there is none.
func (s *GoalService) ActiveGoal(userID string) (*model.Goal, error) {
	goal, err := s.repo.ActiveByUser(userID)
	if errors.Is(err, repository.ErrGoalNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.decorate(goal), nil
}

// ByID loads a goal owned by userID. A goal owned by someone else yields ErrForbidden.
func (s *GoalService) ByID(userID, goalID string) (*model.Goal, error) {
	goal, err := s.repo.ByID(goalID)
	if err != nil {
		return nil, err
	}

	if goal.UserID != userID {
		return nil, ErrForbidden
	}

	return s.decorate(goal), nil
}

func (s *GoalService) Update(userID, goalID string, in GoalUpdate) (*model.Goal, error) {
	goal, err := s.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	previousStatus := goal.Status

	if in.Title != nil {
		goal.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		goal.Description = strings.TrimSpace(*in.Description)
	}
	if in.Deadline != nil {
		goal.Deadline = in.Deadline.UTC()
	}

	err = validateGoalFields(goal.Title, goal.Description, goal.Deadline)
	if err != nil {
		return nil, err
	}

	if in.Progress != nil {
		err = validationError("progress", validation.ValidateProgress(*in.Progress))
		if err != nil {
			return nil, err
		}
		goal.Progress = *in.Progress
	}

	if in.Status != nil {
		err = validationError("status", validation.ValidateGoalStatus(*in.Status))
		if err != nil {
			return nil, err
		}
		goal.Status = *in.Status
	}

	now := s.clock.Now()

	if goal.Status != previousStatus {
		switch goal.Status {
		case model.GoalStatusActive:
			// Reactivation must respect the single active goal rule.
			_, err = s.repo.ActiveByUser(userID)
			if err == nil {
				return nil, ErrActiveGoalExists
			}
			if !errors.Is(err, repository.ErrGoalNotFound) {
				return nil, fmt.Errorf("failed to check active goal: %w", err)
			}
		case model.GoalStatusCompleted:
			if goal.CompletedAt == nil {
				goal.CompletedAt = &now
			}
		case model.GoalStatusArchived:
			if goal.ArchivedAt == nil {
				goal.ArchivedAt = &now
			}
		}
	}

	goal.UpdatedAt = now
	err = s.repo.Update(goal)
	if errors.Is(err, repository.ErrActiveGoalExists) {
		return nil, ErrActiveGoalExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}

	if goal.Status != previousStatus {
		metrics.GoalTransitions.WithLabelValues(goal.Status).Inc()
	}

	return s.decorate(goal), nil
}

// Complete marks the goal completed with full progress. Completing an already
// completed goal returns it unchanged.
func (s *GoalService) Complete(userID, goalID string) (*model.Goal, error) {
	goal, err := s.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	if goal.Status == model.GoalStatusCompleted {
		return goal, nil
	}

	now := s.clock.Now()
	goal.Status = model.GoalStatusCompleted
	goal.Progress = 100
	goal.CompletedAt = &now
	goal.UpdatedAt = now

	err = s.repo.Update(goal)
	if err != nil {
		return nil, fmt.Errorf("failed to complete goal: %w", err)
	}

	metrics.GoalTransitions.WithLabelValues(model.GoalStatusCompleted).Inc()
	slog.Info("goal completed", "user_id", userID, "goal_id", goal.ID)

	s.sendCompletedEmail(goal)
	return s.decorate(goal), nil
}

// Archive shelves the goal. Archiving an already archived goal returns it unchanged.
func (s *GoalService) Archive(userID, goalID string) (*model.Goal, error) {
	goal, err := s.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	if goal.Status == model.GoalStatusArchived {
		return goal, nil
	}

	now := s.clock.Now()
	goal.Status = model.GoalStatusArchived
	goal.ArchivedAt = &now
	goal.UpdatedAt = now

	err = s.repo.Update(goal)
	if err != nil {
		return nil, fmt.Errorf("failed to archive goal: %w", err)
	}

	metrics.GoalTransitions.WithLabelValues(model.GoalStatusArchived).Inc()
	slog.Info("goal archived", "user_id", userID, "goal_id", goal.ID)
	return s.decorate(goal), nil
}

// Delete removes the goal. Its check-ins are removed by the foreign key cascade.
func (s *GoalService) Delete(userID, goalID string) error {
	_, err := s.ByID(userID, goalID)
	if err != nil {
		return err
	}

	return s.repo.Delete(goalID)
}

func (s *GoalService) sendCompletedEmail(goal *model.Goal) {
	if s.mailer == nil {
		return
	}

	user, err := s.userRepo.ByID(goal.UserID)
	if err != nil {
		slog.Warn("failed to load user for goal completed email", "error", err, "user_id", goal.UserID)
		return
	}

	err = s.mailer.SendGoalCompleted(user.Email, user.DisplayName(), goal.Title)
	if err != nil {
		slog.Warn("failed to send goal completed email", "error", err, "user_id", user.ID, "goal_id", goal.ID)
	}
}

func (s *GoalService) decorate(goal *model.Goal) *model.Goal {
	goal.DaysRemaining = goal.DaysUntilDeadline(s.clock.Now())
	return goal
}

func validateGoalFields(title, description string, deadline time.Time) error {
	err := validationError("title", validation.ValidateGoalTitle(title))
	if err != nil {
		return err
	}

	err = validationError("description", validation.ValidateGoalDescription(description))
	if err != nil {
		return err
	}

	return validationError("deadline", validation.ValidateDeadline(deadline))
}
