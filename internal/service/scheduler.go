package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/onegoal/onegoal/internal/model"
	"github.com/robfig/cron/v3"
)

// Default UTC run times of the notification batches.
const (
	CheckInReminderTime = "20:00"
	StreakCheckTime     = "23:00"
	DeadlineWarningTime = "09:00"
)

// SchedulerService runs the notification batches on daily cron schedules.
type SchedulerService struct {
	cron          *cron.Cron
	notifications *NotificationService
	ctx           context.Context
	cancel        context.CancelFunc
}

func NewSchedulerService(notifications *NotificationService, loc *time.Location) *SchedulerService {
	ctx, cancel := context.WithCancel(context.Background())
	return &SchedulerService{
		cron:          cron.New(cron.WithLocation(loc), cron.WithSeconds()),
		notifications: notifications,
		ctx:           ctx,
		cancel:        cancel,
	}
}

// RegisterNotificationJobs schedules the three batches at the given HH:MM times.
func (s *SchedulerService) RegisterNotificationJobs(checkInAt, streakAt, deadlineAt string) error {
	jobs := []struct {
		at  string
		run func(context.Context) (*model.BatchResult, error)
	}{
		{checkInAt, s.notifications.RunCheckInReminders},
		{streakAt, s.notifications.RunStreakMilestoneCheck},
		{deadlineAt, s.notifications.RunDeadlineWarnings},
	}

	for _, job := range jobs {
		run := job.run
		_, err := s.ScheduleDaily(job.at, func() {
			_, err := run(s.ctx)
			if err != nil {
				slog.Error("scheduled notification batch failed", "error", err)
			}
		})
		if err != nil {
			return err
		}
	}

	slog.Info("notification jobs scheduled",
		"checkin_reminders", checkInAt,
		"streak_milestones", streakAt,
		"deadline_warnings", deadlineAt,
	)
	return nil
}

// ScheduleDaily registers a daily job at the given HH:MM time string.
func (s *SchedulerService) ScheduleDaily(timeStr string, job func()) (cron.EntryID, error) {
	spec, err := buildDailySpec(timeStr)
	if err != nil {
		return 0, err
	}
	return s.cron.AddFunc(spec, job)
}

func (s *SchedulerService) Start() {
	s.cron.Start()
}

// Stop cancels running batches and waits for them to return.
func (s *SchedulerService) Stop() {
	s.cancel()
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *SchedulerService) Entries() []cron.Entry {
	return s.cron.Entries()
}

func buildDailySpec(timeStr string) (string, error) {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time %q, expected HH:MM", timeStr)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in %q", timeStr)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in %q", timeStr)
	}
	// second minute hour dom month dow
	return fmt.Sprintf("0 %d %d * * *", minute, hour), nil
}
