// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"

	"indicators/config"
	deliverycontext "indicators/internal/delivery/context"
	"indicators/internal/domain/entity"
	domainerrors "indicators/internal/domain/errors"
	"indicators/internal/domain/repository"
	"indicators/internal/domain/service"
	"indicators/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const bearerTokenType = "bearer"

// authService implements the AuthUsecase interface.
type authService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	seedAdmin    config.SeedAdminConfig
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Config       *config.Config
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	var seed config.SeedAdminConfig
	if params.Config != nil && params.Config.Auth != nil {
		seed = params.Config.Auth.SeedAdmin
	}

	return &authService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		seedAdmin:    seed,
		logger:       params.Logger,
	}
}

func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Login never tells an unknown email, a wrong password and an inactive account apart.
func (srv *authService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.TokenPair, error) {
	email := strings.TrimSpace(input.Email)

	user, err := srv.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, domainerrors.ErrUserNotFound) {
		srv.log(ctx).Info("Login rejected", slog.String("email", email), slog.String("reason", "unknown email"))

		return nil, errors.WithStack(domainerrors.ErrInvalidCredentials)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) || !user.IsActive {
		srv.log(ctx).Info("Login rejected", slog.String("email", email), slog.Bool("active", user.IsActive))

		return nil, errors.WithStack(domainerrors.ErrInvalidCredentials)
	}

	return srv.issuePair(user)
}

func (srv *authService) Refresh(ctx context.Context, refreshToken string) (*usecase.TokenPair, error) {
	if refreshToken == "" {
		return nil, errors.WithStack(domainerrors.ErrMissingRefreshToken)
	}

	claims, err := srv.tokenService.Validate(refreshToken, service.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	user, err := srv.activeUser(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}

	return srv.issuePair(user)
}

func (srv *authService) SeedAdmin(ctx context.Context) (*usecase.TokenPair, error) {
	var admin *entity.User

	err := srv.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		userRepo := factory.NewUserRepository()

		existing, err := userRepo.FindByEmail(ctx, srv.seedAdmin.Email)
		if err == nil {
			admin = existing

			return nil
		}
		if !errors.Is(err, domainerrors.ErrUserNotFound) {
			return err
		}

		hash, err := srv.hasher.Hash(srv.seedAdmin.Password)
		if err != nil {
			return err
		}

		admin = &entity.User{
			Email:        srv.seedAdmin.Email,
			PasswordHash: hash,
			Role:         entity.RoleAdmin,
			IsActive:     true,
		}
		if err := userRepo.Create(ctx, admin); err != nil {
			return err
		}

		srv.log(ctx).Info("Seeded default administrator", slog.String("email", admin.Email), slog.Any("userID", admin.ID))

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to seed administrator")
	}

	return srv.issuePair(admin)
}

// Authenticate re-reads the user on every call so deactivation takes effect before the token expires.
func (srv *authService) Authenticate(ctx context.Context, accessToken string) (*entity.User, error) {
	claims, err := srv.tokenService.Validate(accessToken, service.TokenTypeAccess)
	if err != nil {
		return nil, err
	}

	return srv.activeUser(ctx, claims.Subject)
}

func (srv *authService) activeUser(ctx context.Context, email string) (*entity.User, error) {
	user, err := srv.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, domainerrors.ErrUserNotFound) {
		return nil, errors.WithStack(domainerrors.ErrUserInactive)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user")
	}
	if !user.IsActive {
		return nil, errors.WithStack(domainerrors.ErrUserInactive)
	}

	return user, nil
}

func (srv *authService) issuePair(user *entity.User) (*usecase.TokenPair, error) {
	access, err := srv.tokenService.IssueAccess(user.Email)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue access token")
	}

	refresh, err := srv.tokenService.IssueRefresh(user.Email)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue refresh token")
	}

	return &usecase.TokenPair{
		AccessToken:  access.Token,
		TokenType:    bearerTokenType,
		Role:         user.Role,
		Email:        user.Email,
		RefreshToken: refresh.Token,
		RefreshTTL:   srv.tokenService.RefreshTTL(),
	}, nil
}
