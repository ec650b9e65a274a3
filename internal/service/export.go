package service

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/onegoal/onegoal/internal/model"
	"github.com/onegoal/onegoal/internal/repository"
)

// GoalExport is the portable record of one goal and its history.
type GoalExport struct {
	Goal       *model.Goal        `json:"goal"`
	CheckIns   []*model.CheckIn   `json:"checkIns"`
	Stats      model.CheckInStats `json:"stats"`
	Streak     *int               `json:"streak,omitempty"`
	ExportedAt time.Time          `json:"exportedAt"`
}

type ExportSnapshot struct {
	File *model.File `json:"file"`
	URL  string      `json:"url"`
}

type ExportService struct {
	goalRepo    repository.GoalRepository
	checkInRepo repository.CheckInRepository
	files       *FileService
	clock       Clock
}

func NewExportService(
	goalRepo repository.GoalRepository,
	checkInRepo repository.CheckInRepository,
	files *FileService,
	clock Clock,
) *ExportService {
	return &ExportService{
		goalRepo:    goalRepo,
		checkInRepo: checkInRepo,
		files:       files,
		clock:       clock,
	}
}

// Export assembles the goal with every check-in. The streak is only present
// for active goals.
func (s *ExportService) Export(userID, goalID string) (*GoalExport, error) {
	goal, err := s.goalRepo.ByID(goalID)
	if err != nil {
		return nil, err
	}
	if goal.UserID != userID {
		return nil, repository.ErrGoalNotFound
	}

	now := s.clock.Now()
	goal.DaysRemaining = goal.DaysUntilDeadline(now)

	checkIns, err := s.checkInRepo.CheckIns(goal.ID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load check-ins: %w", err)
	}

	export := &GoalExport{
		Goal:       goal,
		CheckIns:   checkIns,
		Stats:      CalculateStats(checkIns),
		ExportedAt: now,
	}

	if goal.IsActive() {
		dates := make([]time.Time, 0, len(checkIns))
		for _, checkIn := range checkIns {
			dates = append(dates, checkIn.Date)
		}
		streak := CalculateStreak(dates, now)
		export.Streak = &streak
	}

	return export, nil
}

// Snapshot uploads the export as a private JSON file and returns a
// short-lived download link.
func (s *ExportService) Snapshot(userID, goalID string) (*ExportSnapshot, error) {
	if s.files == nil || !s.files.Available() {
		return nil, ErrStorageUnavailable
	}

	export, err := s.Export(userID, goalID)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}

	file, err := s.files.Upload(FileUpload{
		UserID:       userID,
		OwnerType:    model.FileOwnerGoal,
		OwnerID:      goalID,
		Type:         model.FileTypeExport,
		OriginalName: "goal-" + goalID + ".json",
		MimeType:     "application/json",
		Ext:          ".json",
		Data:         data,
	})
	if err != nil {
		return nil, err
	}

	url, err := s.files.URL(file)
	if err != nil {
		return nil, fmt.Errorf("failed to sign export url: %w", err)
	}

	slog.Info("goal export stored", "user_id", userID, "goal_id", goalID, "file_id", file.ID)
	return &ExportSnapshot{File: file, URL: url}, nil
}
