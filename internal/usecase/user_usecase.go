package usecase

import (
	"context"

	"indicators/internal/domain/entity"
)

// CreateUserInput defines the data required to create an account.
type CreateUserInput struct {
	Email    string
	Password string
	Role     entity.Role
}

// PatchUserInput carries the optional changes to an account. Nil fields are left untouched.
type PatchUserInput struct {
	Role     *entity.Role
	IsActive *bool
}

// UserUsecase defines account administration.
type UserUsecase interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*entity.User, error)
	ListUsers(ctx context.Context) ([]*entity.User, error)
	PatchUser(ctx context.Context, id uint, input PatchUserInput) (*entity.User, error)

	// DeactivateUser is a soft delete; the row is kept with is_active=false.
	DeactivateUser(ctx context.Context, id uint) error
}
