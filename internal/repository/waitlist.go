package repository

import (
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/onegoal/onegoal/internal/model"
)

var (
	ErrWaitlistEntryNotFound = errors.New("waitlist entry not found")
	ErrAlreadyOnWaitlist     = errors.New("email already on waitlist")
)

type WaitlistRepository interface {
	Create(entry *model.WaitlistEntry) error
	Entries() ([]*model.WaitlistEntry, error)
	DeleteByEmail(email string) error
}

type waitlistRepository struct {
	db *sqlx.DB
}

func NewWaitlistRepository(db *sqlx.DB) WaitlistRepository {
	return &waitlistRepository{db: db}
}

func (r *waitlistRepository) Create(entry *model.WaitlistEntry) error {
	query := `INSERT INTO waitlist (id, email, name, created_at) VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(query, entry.ID, entry.Email, entry.Name, entry.CreatedAt)
	if isUniqueViolation(err) {
		return ErrAlreadyOnWaitlist
	}
	return err
}

func (r *waitlistRepository) Entries() ([]*model.WaitlistEntry, error) {
	entries := []*model.WaitlistEntry{}
	err := r.db.Select(&entries, `SELECT * FROM waitlist ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *waitlistRepository) DeleteByEmail(email string) error {
	result, err := r.db.Exec(`DELETE FROM waitlist WHERE email = $1`, email)
	return checkAffected(result, err, ErrWaitlistEntryNotFound)
}
