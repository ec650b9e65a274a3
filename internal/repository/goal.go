package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/onegoal/onegoal/internal/model"
)

var (
	ErrGoalNotFound     = errors.New("goal not found")
	ErrActiveGoalExists = errors.New("user already has an active goal")
)

type GoalRepository interface {
	Create(goal *model.Goal) error
	ByID(goalID string) (*model.Goal, error)
	ActiveByUser(userID string) (*model.Goal, error)
	Goals(userID, status string) ([]*model.Goal, error)
	ActiveWithOwners() ([]*model.GoalWithOwner, error)
	GoalsWithOwners(status string, limit, offset int) ([]*model.GoalWithOwner, int, error)
	Update(goal *model.Goal) error
	Delete(goalID string) error
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

// Create inserts a goal. The partial unique index on active goals turns a
// second concurrent active goal into ErrActiveGoalExists.
func (r *goalRepository) Create(goal *model.Goal) error {
	query := `INSERT INTO goals (id, user_id, title, description, deadline, status, progress, completed_at, archived_at, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(query,
		goal.ID,
		goal.UserID,
		goal.Title,
		goal.Description,
		goal.Deadline,
		goal.Status,
		goal.Progress,
		goal.CompletedAt,
		goal.ArchivedAt,
		goal.CreatedAt,
		goal.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrActiveGoalExists
	}
	return err
}

func (r *goalRepository) ByID(goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	err := r.db.Get(goal, `SELECT * FROM goals WHERE id = $1`, goalID)
	if err == sql.ErrNoRows {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}
	return goal, nil
}

func (r *goalRepository) ActiveByUser(userID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE user_id = $1 AND status = $2`

	err := r.db.Get(goal, query, userID, model.GoalStatusActive)
	if err == sql.ErrNoRows {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}
	return goal, nil
}

// Goals lists a user's goals newest first, optionally filtered by status.
func (r *goalRepository) Goals(userID, status string) ([]*model.Goal, error) {
	goals := []*model.Goal{}

	var err error
	if status == "" {
		err = r.db.Select(&goals, `SELECT * FROM goals WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	} else {
		err = r.db.Select(&goals, `SELECT * FROM goals WHERE user_id = $1 AND status = $2 ORDER BY created_at DESC`, userID, status)
	}
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) ActiveWithOwners() ([]*model.GoalWithOwner, error) {
	goals := []*model.GoalWithOwner{}
	query := `SELECT g.*, u.name AS user_name, u.email AS user_email
	          FROM goals g
	          JOIN users u ON u.id = g.user_id
	          WHERE g.status = $1
	          ORDER BY g.created_at ASC`

	err := r.db.Select(&goals, query, model.GoalStatusActive)
	if err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *goalRepository) GoalsWithOwners(status string, limit, offset int) ([]*model.GoalWithOwner, int, error) {
	clause := ""
	var args []any
	if status != "" {
		clause = " WHERE g.status = $1"
		args = append(args, status)
	}

	var total int
	err := r.db.Get(&total, `SELECT COUNT(*) FROM goals g`+clause, args...)
	if err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	query := `SELECT g.*, u.name AS user_name, u.email AS user_email
	          FROM goals g
	          JOIN users u ON u.id = g.user_id` + clause +
		` ORDER BY g.created_at DESC LIMIT ` + placeholder(len(args)-1) + ` OFFSET ` + placeholder(len(args))

	goals := []*model.GoalWithOwner{}
	err = r.db.Select(&goals, query, args...)
	if err != nil {
		return nil, 0, err
	}

	return goals, total, nil
}

func (r *goalRepository) Update(goal *model.Goal) error {
	query := `UPDATE goals
	          SET title = $1, description = $2, deadline = $3, status = $4, progress = $5,
	              completed_at = $6, archived_at = $7, updated_at = $8
	          WHERE id = $9`

	result, err := r.db.Exec(query,
		goal.Title,
		goal.Description,
		goal.Deadline,
		goal.Status,
		goal.Progress,
		goal.CompletedAt,
		goal.ArchivedAt,
		goal.UpdatedAt,
		goal.ID,
	)
	if isUniqueViolation(err) {
		return ErrActiveGoalExists
	}
	return checkAffected(result, err, ErrGoalNotFound)
}

func (r *goalRepository) Delete(goalID string) error {
	result, err := r.db.Exec(`DELETE FROM goals WHERE id = $1`, goalID)
	return checkAffected(result, err, ErrGoalNotFound)
}
