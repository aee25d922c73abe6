package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/diogenes-ai-code/sprout/internal/models"
)

// ErrDuplicateEmail is returned when a user with the same email already exists.
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepo provides database operations for users.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create creates a new user. Role defaults to visitor.
func (r *UserRepo) Create(u *models.User) error {
	if u.Role == "" {
		u.Role = models.RoleVisitor
	}
	u.Email = strings.TrimSpace(u.Email)
	if err := u.Validate(); err != nil {
		return fmt.Errorf("invalid user: %w", err)
	}

	exists, err := r.Exists(u.Email)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateEmail
	}

	now := time.Now()
	result, err := r.db.Exec(
		`INSERT INTO users (name, email, role, created_at) VALUES (?, ?, ?, ?)`,
		u.Name, u.Email, u.Role, FormatTime(now),
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get user id: %w", err)
	}

	u.ID = id
	u.CreatedAt = now
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepo) GetByID(id int64) (*models.User, error) {
	query := `SELECT id, name, email, role, created_at FROM users WHERE id = ?`
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByEmail retrieves a user by email, case-insensitively.
func (r *UserRepo) GetByEmail(email string) (*models.User, error) {
	query := `SELECT id, name, email, role, created_at FROM users WHERE email = ?`
	return r.scanOne(r.db.QueryRow(query, strings.TrimSpace(email)))
}

// List retrieves all users ordered by ID.
func (r *UserRepo) List() ([]*models.User, error) {
	rows, err := r.db.Query(`SELECT id, name, email, role, created_at FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

// SetRole changes a user's role.
func (r *UserRepo) SetRole(id int64, role models.Role) error {
	if !role.IsValid() {
		return fmt.Errorf("invalid role: %s", role)
	}
	result, err := r.db.Exec(`UPDATE users SET role = ? WHERE id = ?`, role, id)
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user not found")
	}
	return nil
}

// Exists checks if a user with the given email exists.
func (r *UserRepo) Exists(email string) (bool, error) {
	var exists int
	err := r.db.QueryRow(`SELECT 1 FROM users WHERE email = ? LIMIT 1`, strings.TrimSpace(email)).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return true, nil
}

func (r *UserRepo) scanOne(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}
