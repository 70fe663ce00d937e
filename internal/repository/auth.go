package repository

import (
	"backend/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type AuthRepository interface {
	CreateUser(user *models.User) error
	GetUserByUsername(username string) (*models.User, error)
	GetAllUsers() ([]*models.User, error)
	CountUsers() (int, error)
	DeleteUser(id int64) error
	PromoteToAdmin(username string) error
}

type authRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewAuthRepository(db *sqlx.DB, log *zap.Logger) AuthRepository {
	return &authRepository{db: db, log: log}
}

func (r *authRepository) CreateUser(user *models.User) error {
	query := `INSERT INTO users (username, email, password_hash, role) VALUES ($1, $2, $3, $4) RETURNING id, is_active, created_at`
	return r.db.QueryRowx(query, user.Username, user.Email, user.PasswordHash, user.Role).
		Scan(&user.ID, &user.IsActive, &user.CreatedAt)
}

func (r *authRepository) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	query := `SELECT id, username, email, password_hash, role, is_active, created_at FROM users WHERE username = $1`
	err := r.db.Get(&user, query, username)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *authRepository) GetAllUsers() ([]*models.User, error) {
	var users []*models.User
	query := `SELECT id, username, email, password_hash, role, is_active, created_at FROM users ORDER BY created_at DESC`
	err := r.db.Select(&users, query)
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *authRepository) CountUsers() (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM users`
	err := r.db.Get(&count, query)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *authRepository) DeleteUser(id int64) error {
	result, err := r.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *authRepository) PromoteToAdmin(username string) error {
	_, err := r.db.Exec(`UPDATE users SET role = 'admin' WHERE username = $1`, username)
	return err
}
