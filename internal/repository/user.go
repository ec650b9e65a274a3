package repository

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/onegoal/onegoal/internal/model"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

type UserFilter struct {
	Search string
	Role   string
	Limit  int
	Offset int
}

type UserRepository interface {
	Create(user *model.User) error
	ByID(id string) (*model.User, error)
	ByEmail(email string) (*model.User, error)
	Update(user *model.User) error
	UpdateRole(id, role string) error
	TouchLastLogin(id string, at time.Time) error
	Users(filter UserFilter) ([]*model.User, int, error)
	Delete(id string) error
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	query := `INSERT INTO users (id, email, password_hash, name, first_name, last_name, role, auth_provider, last_login_at, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.FirstName,
		user.LastName,
		user.Role,
		user.AuthProvider,
		user.LastLoginAt,
		user.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *userRepository) ByID(id string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.Get(user, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *userRepository) ByEmail(email string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE email = $1`

	err := r.db.Get(user, query, email)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *userRepository) Update(user *model.User) error {
	query := `UPDATE users
	          SET email = $1, password_hash = $2, name = $3, first_name = $4, last_name = $5, auth_provider = $6
	          WHERE id = $7`

	result, err := r.db.Exec(query,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.FirstName,
		user.LastName,
		user.AuthProvider,
		user.ID,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return checkAffected(result, err, ErrUserNotFound)
}

func (r *userRepository) UpdateRole(id, role string) error {
	result, err := r.db.Exec(`UPDATE users SET role = $1 WHERE id = $2`, role, id)
	return checkAffected(result, err, ErrUserNotFound)
}

func (r *userRepository) TouchLastLogin(id string, at time.Time) error {
	result, err := r.db.Exec(`UPDATE users SET last_login_at = $1 WHERE id = $2`, at, id)
	return checkAffected(result, err, ErrUserNotFound)
}

// Users returns one page of users matching the filter plus the total match count.
func (r *userRepository) Users(filter UserFilter) ([]*model.User, int, error) {
	var where []string
	var args []any

	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		p := placeholder(len(args))
		where = append(where, "(LOWER(name) LIKE "+p+" OR LOWER(email) LIKE "+p+")")
	}
	if filter.Role != "" {
		args = append(args, filter.Role)
		where = append(where, "role = "+placeholder(len(args)))
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	err := r.db.Get(&total, `SELECT COUNT(*) FROM users`+clause, args...)
	if err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, filter.Offset)
	query := `SELECT * FROM users` + clause +
		` ORDER BY created_at DESC LIMIT ` + placeholder(len(args)-1) + ` OFFSET ` + placeholder(len(args))

	users := []*model.User{}
	err = r.db.Select(&users, query, args...)
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *userRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	return checkAffected(result, err, ErrUserNotFound)
}

func checkAffected(result sql.Result, err error, notFound error) error {
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return notFound
	}

	return nil
}
