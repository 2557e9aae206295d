package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "indicators/internal/delivery/context"
	"indicators/internal/domain/entity"
	domainerrors "indicators/internal/domain/errors"
	"indicators/internal/domain/repository"
	"indicators/internal/domain/service"
	"indicators/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	userRepo repository.UserRepository
	hasher   service.PasswordHasher
	logger   *slog.Logger
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	UserRepo repository.UserRepository
	Hasher   service.PasswordHasher
	Logger   *slog.Logger
}

// NewUserService is the constructor for userService.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		userRepo: params.UserRepo,
		hasher:   params.Hasher,
		logger:   params.Logger,
	}
}

func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *userService) CreateUser(ctx context.Context, input usecase.CreateUserInput) (*entity.User, error) {
	if !input.Role.IsValid() {
		return nil, domainerrors.ErrInvalidRole.WithDetails("role must be one of " + strings.Join(entity.AllRoles().ToStrings(), ", "))
	}

	email := strings.TrimSpace(input.Email)

	_, err := srv.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil, errors.WithStack(domainerrors.ErrUserAlreadyExists)
	}
	if !errors.Is(err, domainerrors.ErrUserNotFound) {
		return nil, errors.Wrap(err, "failed to check email")
	}

	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Email:        email,
		PasswordHash: hash,
		Role:         input.Role,
		IsActive:     true,
	}
	if err := srv.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("User created", slog.Any("userID", user.ID), slog.Any("role", user.Role))

	return user, nil
}

func (srv *userService) ListUsers(ctx context.Context) ([]*entity.User, error) {
	return srv.userRepo.List(ctx)
}

func (srv *userService) PatchUser(ctx context.Context, id uint, input usecase.PatchUserInput) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// An empty role is treated as absent.
	if input.Role != nil && *input.Role != "" {
		if !input.Role.IsValid() {
			return nil, errors.WithStack(domainerrors.ErrInvalidRole)
		}
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := srv.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("User updated", slog.Any("userID", user.ID), slog.Any("role", user.Role), slog.Bool("active", user.IsActive))

	return user, nil
}

func (srv *userService) DeactivateUser(ctx context.Context, id uint) error {
	user, err := srv.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	user.IsActive = false
	if err := srv.userRepo.Update(ctx, user); err != nil {
		return err
	}

	srv.log(ctx).Info("User deactivated", slog.Any("userID", user.ID))

	return nil
}
