package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/onegoal/onegoal/internal/metrics"
	"github.com/onegoal/onegoal/internal/model"
	"github.com/onegoal/onegoal/internal/repository"
	"github.com/onegoal/onegoal/internal/validation"
)

// CheckInHistoryLimit caps how many check-ins a goal listing returns.
const CheckInHistoryLimit = 30

type CheckInInput struct {
	GoalID   string
	Progress *int
	Note     string
	Mood     string
}

type TodayCheckIn struct {
	Goal    *model.Goal    `json:"goal"`
	CheckIn *model.CheckIn `json:"checkIn"`
}

type CheckInService struct {
	goalRepo    repository.GoalRepository
	checkInRepo repository.CheckInRepository
	clock       Clock
}

func NewCheckInService(goalRepo repository.GoalRepository, checkInRepo repository.CheckInRepository, clock Clock) *CheckInService {
	return &CheckInService{
		goalRepo:    goalRepo,
		checkInRepo: checkInRepo,
		clock:       clock,
	}
}

// Submit records today's check-in for the goal, creating it or merging into
// the existing one. The bool result is true when a new check-in was created.
func (s *CheckInService) Submit(userID string, in CheckInInput) (*model.CheckIn, bool, error) {
	goal, err := s.ownedGoal(userID, in.GoalID)
	if err != nil {
		return nil, false, err
	}

	if !goal.IsActive() {
		metrics.CheckInsTotal.WithLabelValues("rejected").Inc()
		return nil, false, ErrGoalNotActive
	}

	if in.Progress == nil {
		return nil, false, &ValidationError{Field: "progress", Message: "progress percentage is required"}
	}

	note := strings.TrimSpace(in.Note)
	mood := strings.TrimSpace(in.Mood)

	err = validationError("progress", validation.ValidateProgress(*in.Progress))
	if err != nil {
		return nil, false, err
	}
	err = validationError("note", validation.ValidateNote(note))
	if err != nil {
		return nil, false, err
	}
	err = validationError("mood", validation.ValidateMood(mood))
	if err != nil {
		return nil, false, err
	}

	now := s.clock.Now()
	checkIn := &model.CheckIn{
		ID:        uuid.New().String(),
		UserID:    userID,
		GoalID:    goal.ID,
		Date:      UTCMidnight(now),
		Progress:  *in.Progress,
		Note:      note,
		Mood:      mood,
		CreatedAt: now,
		UpdatedAt: now,
	}

	saved, created, err := s.checkInRepo.Upsert(checkIn)
	if errors.Is(err, repository.ErrGoalNotActive) {
		metrics.CheckInsTotal.WithLabelValues("rejected").Inc()
		return nil, false, ErrGoalNotActive
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to save check-in: %w", err)
	}

	outcome := "updated"
	if created {
		outcome = "created"
	}
	metrics.CheckInsTotal.WithLabelValues(outcome).Inc()
	slog.Debug("check-in saved", "user_id", userID, "goal_id", goal.ID, "outcome", outcome)

	return saved, created, nil
}

// CheckIns returns the most recent check-ins of an owned goal.
func (s *CheckInService) CheckIns(userID, goalID string) ([]*model.CheckIn, error) {
	_, err := s.ownedGoal(userID, goalID)
	if err != nil {
		return nil, err
	}

	return s.checkInRepo.CheckIns(goalID, CheckInHistoryLimit)
}

func (s *CheckInService) Today(userID string) (*TodayCheckIn, error) {
	goal, err := s.goalRepo.ActiveByUser(userID)
	if errors.Is(err, repository.ErrGoalNotFound) {
		return nil, ErrNoActiveGoal
	}
	if err != nil {
		return nil, err
	}

	goal.DaysRemaining = goal.DaysUntilDeadline(s.clock.Now())
	today := &TodayCheckIn{Goal: goal}

	checkIn, err := s.checkInRepo.ByGoalAndDate(goal.ID, UTCMidnight(s.clock.Now()))
	if err != nil && !errors.Is(err, repository.ErrCheckInNotFound) {
		return nil, err
	}
	today.CheckIn = checkIn

	return today, nil
}

// Streak returns the current streak of the user's active goal, 0 without one.
func (s *CheckInService) Streak(userID string) (int, error) {
	goal, err := s.goalRepo.ActiveByUser(userID)
	if errors.Is(err, repository.ErrGoalNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return s.GoalStreak(goal.ID)
}

func (s *CheckInService) GoalStreak(goalID string) (int, error) {
	dates, err := s.checkInRepo.Dates(goalID)
	if err != nil {
		return 0, err
	}

	return CalculateStreak(dates, s.clock.Now()), nil
}

// Stats aggregates the check-ins of the user's active goal.
func (s *CheckInService) Stats(userID string) (model.CheckInStats, error) {
	goal, err := s.goalRepo.ActiveByUser(userID)
	if errors.Is(err, repository.ErrGoalNotFound) {
		return CalculateStats(nil), nil
	}
	if err != nil {
		return model.CheckInStats{}, err
	}

	checkIns, err := s.checkInRepo.CheckIns(goal.ID, 0)
	if err != nil {
		return model.CheckInStats{}, err
	}

	return CalculateStats(checkIns), nil
}

// ownedGoal hides goals of other users behind ErrGoalNotFound.
func (s *CheckInService) ownedGoal(userID, goalID string) (*model.Goal, error) {
	goal, err := s.goalRepo.ByID(goalID)
	if err != nil {
		return nil, err
	}

	if goal.UserID != userID {
		return nil, repository.ErrGoalNotFound
	}

	return goal, nil
}
