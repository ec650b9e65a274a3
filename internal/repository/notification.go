package repository

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/onegoal/onegoal/internal/model"
)

type NotificationRepository interface {
	Claim(log *model.NotificationLog) (bool, error)
	Release(userID, notificationType, ref string) error
	Logs(userID string) ([]*model.NotificationLog, error)
}

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// Claim records a notification before it is sent. It returns false when the
// same (user, type, ref) was already claimed, so a re-run skips it.
func (r *notificationRepository) Claim(log *model.NotificationLog) (bool, error) {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}

	query := `INSERT INTO notification_logs (id, user_id, type, ref, sent_at)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (user_id, type, ref) DO NOTHING`

	result, err := r.db.Exec(query, log.ID, log.UserID, log.Type, log.Ref, log.SentAt)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows == 1, nil
}

// Release drops a claim after a failed send so the next run retries it.
func (r *notificationRepository) Release(userID, notificationType, ref string) error {
	_, err := r.db.Exec(`DELETE FROM notification_logs WHERE user_id = $1 AND type = $2 AND ref = $3`,
		userID, notificationType, ref)
	return err
}

func (r *notificationRepository) Logs(userID string) ([]*model.NotificationLog, error) {
	logs := []*model.NotificationLog{}
	err := r.db.Select(&logs, `SELECT * FROM notification_logs WHERE user_id = $1 ORDER BY sent_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return logs, nil
}
