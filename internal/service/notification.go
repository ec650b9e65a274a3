package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/onegoal/onegoal/internal/metrics"
	"github.com/onegoal/onegoal/internal/model"
	"github.com/onegoal/onegoal/internal/repository"
)

var (
	StreakMilestones   = []int{7, 14, 30, 60, 100, 180, 365}
	DeadlineThresholds = []int{7, 3, 1}
)

type NotificationService struct {
	goalRepo         repository.GoalRepository
	checkInRepo      repository.CheckInRepository
	notificationRepo repository.NotificationRepository
	mailer           Mailer
	clock            Clock
}

func NewNotificationService(
	goalRepo repository.GoalRepository,
	checkInRepo repository.CheckInRepository,
	notificationRepo repository.NotificationRepository,
	mailer Mailer,
	clock Clock,
) *NotificationService {
	return &NotificationService{
		goalRepo:         goalRepo,
		checkInRepo:      checkInRepo,
		notificationRepo: notificationRepo,
		mailer:           mailer,
		clock:            clock,
	}
}

// RunCheckInReminders emails every owner of an active goal who has not
// checked in today. Each owner is reminded at most once per UTC day.
func (s *NotificationService) RunCheckInReminders(ctx context.Context) (*model.BatchResult, error) {
	today := UTCMidnight(s.clock.Now())
	ref := today.Format(time.DateOnly)

	return s.runBatch(ctx, model.NotificationCheckInReminder, func(goal *model.GoalWithOwner) (string, func() error, error) {
		_, err := s.checkInRepo.ByGoalAndDate(goal.ID, today)
		if err == nil {
			return "", nil, nil
		}
		if !errors.Is(err, repository.ErrCheckInNotFound) {
			return "", nil, err
		}

		return ref, func() error {
			return s.mailer.SendCheckInReminder(goal.UserEmail, ownerName(goal))
		}, nil
	})
}

// RunStreakMilestoneCheck congratulates owners whose current streak sits
// exactly on a milestone.
func (s *NotificationService) RunStreakMilestoneCheck(ctx context.Context) (*model.BatchResult, error) {
	now := s.clock.Now()

	return s.runBatch(ctx, model.NotificationStreakMilestone, func(goal *model.GoalWithOwner) (string, func() error, error) {
		dates, err := s.checkInRepo.Dates(goal.ID)
		if err != nil {
			return "", nil, err
		}

		streak := CalculateStreak(dates, now)
		if !slices.Contains(StreakMilestones, streak) {
			return "", nil, nil
		}

		return goal.ID + ":" + strconv.Itoa(streak), func() error {
			return s.mailer.SendStreakMilestone(goal.UserEmail, ownerName(goal), streak)
		}, nil
	})
}

// RunDeadlineWarnings warns owners whose goal deadline is 7, 3 or 1 days out.
func (s *NotificationService) RunDeadlineWarnings(ctx context.Context) (*model.BatchResult, error) {
	now := s.clock.Now()

	return s.runBatch(ctx, model.NotificationDeadlineWarning, func(goal *model.GoalWithOwner) (string, func() error, error) {
		daysLeft := goal.DaysUntilDeadline(now)
		if !slices.Contains(DeadlineThresholds, daysLeft) {
			return "", nil, nil
		}

		return goal.ID + ":" + strconv.Itoa(daysLeft), func() error {
			return s.mailer.SendDeadlineWarning(goal.UserEmail, ownerName(goal), goal.Title, daysLeft, goal.Progress)
		}, nil
	})
}

// batchStep inspects one goal. An empty ref means nothing to send.
type batchStep func(goal *model.GoalWithOwner) (ref string, send func() error, err error)

// runBatch walks every active goal. A failure for one owner is logged and
// counted, and the batch moves on to the next.
func (s *NotificationService) runBatch(ctx context.Context, notificationType string, step batchStep) (*model.BatchResult, error) {
	goals, err := s.goalRepo.ActiveWithOwners()
	if err != nil {
		return nil, fmt.Errorf("failed to load active goals: %w", err)
	}

	result := &model.BatchResult{Type: notificationType}

	for _, goal := range goals {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		ref, send, err := step(goal)
		if err != nil {
			result.Failed++
			slog.Error("notification check failed", "error", err, "type", notificationType, "user_id", goal.UserID, "goal_id", goal.ID)
			continue
		}
		if ref == "" {
			continue
		}

		err = s.deliver(notificationType, goal.UserID, ref, send)
		switch {
		case errors.Is(err, errAlreadyNotified):
			result.Skipped++
		case err != nil:
			result.Failed++
			slog.Error("notification failed", "error", err, "type", notificationType, "user_id", goal.UserID, "goal_id", goal.ID)
		default:
			result.Sent++
		}
	}

	slog.Info("notification batch finished",
		"type", notificationType,
		"sent", result.Sent,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return result, nil
}

var errAlreadyNotified = errors.New("already notified")

// deliver claims the (user, type, ref) log entry and sends. A failed send
// releases the claim so the next run can retry.
func (s *NotificationService) deliver(notificationType, userID, ref string, send func() error) error {
	claimed, err := s.notificationRepo.Claim(&model.NotificationLog{
		UserID: userID,
		Type:   notificationType,
		Ref:    ref,
		SentAt: s.clock.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to record notification: %w", err)
	}
	if !claimed {
		metrics.NotificationsTotal.WithLabelValues(notificationType, "skipped").Inc()
		return errAlreadyNotified
	}

	err = send()
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues(notificationType, "failed").Inc()
		releaseErr := s.notificationRepo.Release(userID, notificationType, ref)
		if releaseErr != nil {
			slog.Error("failed to release notification claim", "error", releaseErr, "user_id", userID, "type", notificationType)
		}
		return err
	}

	metrics.NotificationsTotal.WithLabelValues(notificationType, "sent").Inc()
	return nil
}

func ownerName(goal *model.GoalWithOwner) string {
	if goal.UserName != "" {
		return goal.UserName
	}
	return goal.UserEmail
}
