// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"indicators/internal/domain/entity"
)

// UserRepository is the credential store.
type UserRepository interface {
	// FindByID returns domainerrors.ErrUserNotFound when absent.
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// FindByEmail matches the email exactly and returns domainerrors.ErrUserNotFound when absent.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// List returns every user ordered by id.
	List(ctx context.Context) ([]*entity.User, error)

	// Create persists user and fills in its ID and CreatedAt.
	Create(ctx context.Context, user *entity.User) error

	// Update saves role and active flag.
	Update(ctx context.Context, user *entity.User) error

	CountByRole(ctx context.Context, role entity.Role) (int64, error)
}
