package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/apnakhata/apnakhata/internal/models"
)

// CreateUser inserts a new user and populates its ID and CreatedAt.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (name, email, phone_number, password_hash, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		user.Name, user.Email, user.PhoneNumber, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", classify(err))
	}

	user.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read user id: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves a user by their email address.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "email = ?", email)
}

// GetUserByID retrieves a user by their ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.getUser(ctx, "id = ?", id)
}

func (s *SQLiteStore) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, phone_number, password_hash, created_at
		 FROM users WHERE `+where,
		arg,
	).Scan(&user.ID, &user.Name, &user.Email, &user.PhoneNumber, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", classify(err))
	}
	return user, nil
}

// ListUsers returns all users that have an email and a phone number.
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]*models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, phone_number, password_hash, created_at
		 FROM users
		 WHERE email != '' AND phone_number != ''
		 ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", classify(err))
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.PhoneNumber, &user.PasswordHash, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", classify(err))
	}
	return users, nil
}
