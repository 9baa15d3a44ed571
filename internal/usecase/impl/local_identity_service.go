// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "surplus/internal/delivery/context"
	"surplus/internal/domain/entity"
	domainerrors "surplus/internal/domain/errors"
	"surplus/internal/domain/repository"
	"surplus/internal/domain/service"
	"surplus/internal/errors"
	"surplus/internal/infra/metrics"
	"surplus/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// localIdentityService implements IdentityUsecase against the local fallback
// account store. It is selected at startup when no remote identity backend is
// configured.
type localIdentityService struct {
	accountRepo  repository.AccountRepository
	sessionRepo  repository.SessionRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
}

// LocalIdentityServiceParams holds dependencies for localIdentityService, injected by Fx.
type LocalIdentityServiceParams struct {
	fx.In

	AccountRepo  repository.AccountRepository
	SessionRepo  repository.SessionRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewLocalIdentityService is the constructor for localIdentityService.
func NewLocalIdentityService(params LocalIdentityServiceParams) usecase.IdentityUsecase {
	return &localIdentityService{
		accountRepo:  params.AccountRepo,
		sessionRepo:  params.SessionRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

func (srv *localIdentityService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a new account and signs it in. A taken username fails
// before anything is written, so neither the account set nor the session
// changes on failure.
func (srv *localIdentityService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.AuthOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("username", input.Username))

	_, err := srv.accountRepo.FindByUsername(ctx, input.Username)
	switch {
	case err == nil:
		srv.log(ctx).Warn("Registration rejected, username taken", slog.String("username", input.Username))

		return nil, errors.Wrap(domainerrors.ErrDuplicateUsername, "registration failed")
	case !errors.Is(err, repository.ErrAccountNotFound):
		return nil, errors.Wrap(err, "failed to check username availability")
	}

	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash credential during registration")
	}

	displayName := input.DisplayName
	if displayName == "" {
		displayName = input.Username
	}

	account := &entity.Account{
		ID:           uuid.New().String(),
		Username:     input.Username,
		DisplayName:  displayName,
		PasswordHash: hash,
		Role:         entity.RoleFromString(input.Role),
		CreatedAt:    time.Now().UTC(),
	}

	if err := srv.accountRepo.Create(ctx, account); err != nil {
		return nil, errors.Wrap(err, "failed to create account")
	}

	return srv.openSession(ctx, account)
}

// Login authenticates by exact username and credential match. The unknown
// username and wrong password cases fail with the identical outcome.
func (srv *localIdentityService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	srv.log(ctx).Debug("Starting login", slog.String("username", input.Username))

	account, err := srv.accountRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			srv.log(ctx).Warn("Login failed", slog.String("username", input.Username))

			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		return nil, errors.Wrap(err, "failed to load account for login")
	}

	if !srv.hasher.Check(input.Password, account.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		srv.log(ctx).Warn("Login failed", slog.String("username", input.Username))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()

	return srv.openSession(ctx, account)
}

// Logout clears the persisted session unconditionally.
func (srv *localIdentityService) Logout(ctx context.Context) error {
	if err := srv.sessionRepo.Clear(ctx); err != nil {
		return errors.Wrap(err, "failed to clear session")
	}

	srv.log(ctx).Info("Session cleared")

	return nil
}

// CurrentSession returns the restored session, or nil when none is persisted.
func (srv *localIdentityService) CurrentSession(ctx context.Context) (*entity.Session, error) {
	session, err := srv.sessionRepo.Load(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, nil
		}

		return nil, errors.Wrap(err, "failed to load session")
	}

	return session, nil
}

// openSession persists the session snapshot for the account and issues a
// signed token. The snapshot write is last-write-wins.
func (srv *localIdentityService) openSession(ctx context.Context, account *entity.Account) (*usecase.AuthOutput, error) {
	session := &entity.Session{
		AccountID: account.ID,
		Username:  account.DisplayName,
		Role:      account.Role,
	}

	if err := srv.sessionRepo.Save(ctx, session); err != nil {
		return nil, errors.Wrap(err, "failed to persist session")
	}

	token, err := srv.tokenService.GenerateToken(account.ID, session.Username, account.Role.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate session token")
	}

	srv.log(ctx).Info("Session opened", slog.String("accountID", account.ID), slog.Any("role", account.Role))

	return &usecase.AuthOutput{Account: account, Session: session, Token: token}, nil
}
