package store

import (
	"context"
	"fmt"

	"storefront/internal/models"
)

// CreateUser inserts a customer; a taken email yields ErrConflict
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	err := s.db.GetContext(ctx, user, `
		INSERT INTO users (name, email, phone, password)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		user.Name, user.Email, user.Phone, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", translate(err))
	}
	return nil
}

// GetUserByEmail retrieves a customer by email
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE email = $1", email); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// GetAdminByEmail retrieves an admin by email
func (s *Store) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	if err := s.db.GetContext(ctx, &admin, "SELECT * FROM admins WHERE email = $1", email); err != nil {
		return nil, translate(err)
	}
	return &admin, nil
}

// GetAdminByID retrieves an admin by id
func (s *Store) GetAdminByID(ctx context.Context, id int64) (*models.Admin, error) {
	var admin models.Admin
	if err := s.db.GetContext(ctx, &admin, "SELECT * FROM admins WHERE id = $1", id); err != nil {
		return nil, translate(err)
	}
	return &admin, nil
}

// UpdateAdminPassword stores a new password hash
func (s *Store) UpdateAdminPassword(ctx context.Context, id int64, hash string) error {
	return expectAffected(s.db.ExecContext(ctx,
		"UPDATE admins SET password = $1 WHERE id = $2", hash, id))
}
