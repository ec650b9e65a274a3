package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/onegoal/onegoal/internal/model"
)

var (
	ErrCheckInNotFound = errors.New("check-in not found")
	ErrGoalNotActive   = errors.New("goal is not active")
)

type CheckInRepository interface {
	Upsert(checkIn *model.CheckIn) (*model.CheckIn, bool, error)
	ByGoalAndDate(goalID string, date time.Time) (*model.CheckIn, error)
	CheckIns(goalID string, limit int) ([]*model.CheckIn, error)
	Dates(goalID string) ([]time.Time, error)
}

type checkInRepository struct {
	db *sqlx.DB
}

func NewCheckInRepository(db *sqlx.DB) CheckInRepository {
	return &checkInRepository{db: db}
}

// Upsert writes the day's check-in keyed on (goal_id, date) and mirrors its
// progress onto the goal in the same transaction. Empty note or mood keep the
// stored values. The bool result reports whether a new row was created.
func (r *checkInRepository) Upsert(checkIn *model.CheckIn) (*model.CheckIn, bool, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	// Guard on status so a goal archived concurrently cannot receive progress.
	result, err := tx.Exec(`UPDATE goals SET progress = $1, updated_at = $2 WHERE id = $3 AND status = $4`,
		checkIn.Progress, checkIn.UpdatedAt, checkIn.GoalID, model.GoalStatusActive)
	if err != nil {
		return nil, false, fmt.Errorf("failed to update goal progress: %w", err)
	}
	err = checkAffected(result, nil, ErrGoalNotActive)
	if err != nil {
		return nil, false, err
	}

	var existing int
	err = tx.Get(&existing, `SELECT COUNT(*) FROM check_ins WHERE goal_id = $1 AND date = $2`, checkIn.GoalID, checkIn.Date)
	if err != nil {
		return nil, false, err
	}

	query := `INSERT INTO check_ins (id, user_id, goal_id, date, progress, note, mood, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          ON CONFLICT (goal_id, date) DO UPDATE SET
	              progress = excluded.progress,
	              note = CASE WHEN excluded.note <> '' THEN excluded.note ELSE check_ins.note END,
	              mood = CASE WHEN excluded.mood <> '' THEN excluded.mood ELSE check_ins.mood END,
	              updated_at = excluded.updated_at
	          RETURNING *`

	saved := &model.CheckIn{}
	err = tx.Get(saved, query,
		checkIn.ID,
		checkIn.UserID,
		checkIn.GoalID,
		checkIn.Date,
		checkIn.Progress,
		checkIn.Note,
		checkIn.Mood,
		checkIn.CreatedAt,
		checkIn.UpdatedAt,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert check-in: %w", err)
	}

	err = tx.Commit()
	if err != nil {
		return nil, false, err
	}

	return saved, existing == 0, nil
}

func (r *checkInRepository) ByGoalAndDate(goalID string, date time.Time) (*model.CheckIn, error) {
	checkIn := &model.CheckIn{}
	err := r.db.Get(checkIn, `SELECT * FROM check_ins WHERE goal_id = $1 AND date = $2`, goalID, date)
	if err == sql.ErrNoRows {
		return nil, ErrCheckInNotFound
	}
	if err != nil {
		return nil, err
	}
	return checkIn, nil
}

// CheckIns returns the goal's check-ins, most recent first. A limit of zero returns all of them.
func (r *checkInRepository) CheckIns(goalID string, limit int) ([]*model.CheckIn, error) {
	checkIns := []*model.CheckIn{}

	var err error
	if limit > 0 {
		err = r.db.Select(&checkIns, `SELECT * FROM check_ins WHERE goal_id = $1 ORDER BY date DESC LIMIT $2`, goalID, limit)
	} else {
		err = r.db.Select(&checkIns, `SELECT * FROM check_ins WHERE goal_id = $1 ORDER BY date DESC`, goalID)
	}
	if err != nil {
		return nil, err
	}

	return checkIns, nil
}

// Dates returns the check-in days of a goal, most recent first.
func (r *checkInRepository) Dates(goalID string) ([]time.Time, error) {
	var dates []time.Time
	err := r.db.Select(&dates, `SELECT date FROM check_ins WHERE goal_id = $1 ORDER BY date DESC`, goalID)
	if err != nil {
		return nil, err
	}
	return dates, nil
}
