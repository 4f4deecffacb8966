// Package users persists registered candidates and admins.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already exists")
	ErrEmailTaken    = errors.New("email already registered")
)

const bcryptCost = 12

// Roles understood by the RBAC layer.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
	IsActive     bool   `json:"is_active"`
	CreatedAt    int64  `json:"created_at"`
	LastLogin    int64  `json:"last_login,omitempty"`
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Create registers a new user with a bcrypt-hashed password.
func (s *Store) Create(ctx context.Context, email, username, password, role string) (User, error) {
	if _, err := s.GetByUsername(ctx, username); err == nil {
		return User{}, ErrUsernameTaken
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}
	if _, err := s.GetByEmail(ctx, email); err == nil {
		return User{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	u := User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
		CreatedAt:    time.Now().Unix(),
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO users (id,email,username,password_hash,role,is_active,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		u.ID, u.Email, u.Username, u.PasswordHash, u.Role, u.IsActive, u.CreatedAt)
	if err != nil {
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (s *Store) GetByUsername(ctx context.Context, username string) (User, error) {
	return s.getWhere(ctx, "username", username)
}

func (s *Store) GetByEmail(ctx context.Context, email string) (User, error) {
	return s.getWhere(ctx, "email", email)
}

func (s *Store) getWhere(ctx context.Context, col, val string) (User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,email,username,password_hash,role,is_active,created_at,last_login
		FROM users WHERE `+col+`=$1`, val)
	var u User
	var lastLogin sql.NullInt64
	if err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Role,
		&u.IsActive, &u.CreatedAt, &lastLogin); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	u.LastLogin = lastLogin.Int64
	return u, nil
}

// Authenticate checks username/password and stamps last_login on success.
func (s *Store) Authenticate(ctx context.Context, username, password string) (User, error) {
	u, err := s.GetByUsername(ctx, username)
	if err != nil {
		return User{}, err
	}
	if !u.IsActive {
		return User{}, ErrNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return User{}, ErrNotFound
	}
	now := time.Now().Unix()
	if _, err := s.db.ExecContext(ctx, `UPDATE users SET last_login=$1 WHERE id=$2`, now, u.ID); err != nil {
		return User{}, fmt.Errorf("stamp last login: %w", err)
	}
	u.LastLogin = now
	return u, nil
}

// UpdatePassword rehashes and stores a new password for the user with the
// given email.
func (s *Store) UpdatePassword(ctx context.Context, email, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE users SET password_hash=$1 WHERE email=$2`, string(hash), email)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns all users, newest first.
func (s *Store) List(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,email,username,password_hash,role,is_active,created_at,last_login
		FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		var lastLogin sql.NullInt64
		if err := rows.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Role,
			&u.IsActive, &u.CreatedAt, &lastLogin); err != nil {
			return nil, err
		}
		u.LastLogin = lastLogin.Int64
		out = append(out, u)
	}
	return out, rows.Err()
}

// EnsureAdmin seeds the default admin account when it does not exist yet.
func (s *Store) EnsureAdmin(ctx context.Context, username, password string) error {
	_, err := s.GetByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}
	if _, err := s.Create(ctx, username+"@local", username, password, RoleAdmin); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}
