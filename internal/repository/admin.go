package repository

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/onegoal/onegoal/internal/model"
)

type StatsRepository interface {
	SystemStats(signupsSince time.Time) (*model.SystemStats, error)
}

type statsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) SystemStats(signupsSince time.Time) (*model.SystemStats, error) {
	stats := &model.SystemStats{}
	query := `SELECT
	            (SELECT COUNT(*) FROM users) AS total_users,
	            (SELECT COUNT(*) FROM users WHERE role = 'user') AS user_count,
	            (SELECT COUNT(*) FROM users WHERE role = 'admin') AS admin_count,
	            (SELECT COUNT(*) FROM users WHERE created_at >= $1) AS recent_signups,
	            (SELECT COUNT(*) FROM goals) AS total_goals,
	            (SELECT COUNT(*) FROM goals WHERE status = 'active') AS active_goals,
	            (SELECT COUNT(*) FROM goals WHERE status = 'completed') AS completed_goals,
	            (SELECT COUNT(*) FROM goals WHERE status = 'archived') AS archived_goals,
	            (SELECT COUNT(*) FROM check_ins) AS total_checkins`

	err := r.db.Get(stats, query, signupsSince)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
