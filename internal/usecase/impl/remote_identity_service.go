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

	"go.uber.org/fx"
)

// remoteIdentityService implements IdentityUsecase against a remote identity
// provider. The provider owns credentials and display names; roles are kept
// locally as per-account markers because the provider does not store them.
type remoteIdentityService struct {
	provider     service.IdentityProvider
	roleRepo     repository.RoleMarkerRepository
	sessionRepo  repository.SessionRepository
	tokenService service.TokenService
	logger       *slog.Logger
}

// RemoteIdentityServiceParams holds dependencies for remoteIdentityService, injected by Fx.
type RemoteIdentityServiceParams struct {
	fx.In

	Provider     service.IdentityProvider
	RoleRepo     repository.RoleMarkerRepository
	SessionRepo  repository.SessionRepository
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewRemoteIdentityService is the constructor for remoteIdentityService.
func NewRemoteIdentityService(params RemoteIdentityServiceParams) usecase.IdentityUsecase {
	return &remoteIdentityService{
		provider:     params.Provider,
		roleRepo:     params.RoleRepo,
		sessionRepo:  params.SessionRepo,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

func (srv *remoteIdentityService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates the account with the provider, records its role marker,
// and signs it in. Provider rejections surface as DuplicateUsername; anything
// transport-level collapses to IdentityUnavailable.
func (srv *remoteIdentityService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.AuthOutput, error) {
	srv.log(ctx).Info("Starting remote registration", slog.String("username", input.Username))

	externalID, err := srv.provider.CreateAccount(ctx, input.Username, input.Password)
	if err != nil {
		return nil, srv.mapProviderError(ctx, err, domainerrors.ErrDuplicateUsername, "remote registration failed")
	}

	role := entity.RoleFromString(input.Role)
	if err := srv.roleRepo.Set(ctx, externalID, role); err != nil {
		return nil, errors.Wrap(err, "failed to record role marker")
	}

	displayName := input.DisplayName
	if displayName == "" {
		displayName = input.Username
	} else if err := srv.provider.SetDisplayName(ctx, externalID, displayName); err != nil {
		// The account exists either way; a failed display-name update is
		// not worth failing the whole signup over.
		srv.log(ctx).Warn("Failed to set display name", slog.String("externalID", externalID), slog.Any("error", err))
	}

	account := &entity.Account{
		ID:          externalID,
		Username:    input.Username,
		DisplayName: displayName,
		Role:        role,
		CreatedAt:   time.Now().UTC(),
	}

	return srv.openSession(ctx, account)
}

// Login authenticates against the provider and recovers the role from the
// local marker, defaulting to customer when the marker is missing.
func (srv *remoteIdentityService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	srv.log(ctx).Debug("Starting remote login", slog.String("username", input.Username))

	externalID, displayName, err := srv.provider.Authenticate(ctx, input.Username, input.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()

		return nil, srv.mapProviderError(ctx, err, domainerrors.ErrInvalidCredentials, "remote login failed")
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()

	role, err := srv.roleRepo.Get(ctx, externalID)
	if err != nil {
		if !errors.Is(err, repository.ErrRoleMarkerNotFound) {
			return nil, errors.Wrap(err, "failed to load role marker")
		}
		role = entity.RoleCustomer
	}

	if displayName == "" {
		displayName = input.Username
	}

	account := &entity.Account{
		ID:          externalID,
		Username:    input.Username,
		DisplayName: displayName,
		Role:        role,
	}

	return srv.openSession(ctx, account)
}

// Logout clears the persisted session and tells the provider to drop its
// session, if it keeps one. Idempotent.
func (srv *remoteIdentityService) Logout(ctx context.Context) error {
	if err := srv.provider.SignOut(ctx); err != nil {
		// Local state is what matters for the session contract; provider
		// sign-out failures are logged and swallowed.
		srv.log(ctx).Warn("Provider sign-out failed", slog.Any("error", err))
	}

	if err := srv.sessionRepo.Clear(ctx); err != nil {
		return errors.Wrap(err, "failed to clear session")
	}

	srv.log(ctx).Info("Session cleared")

	return nil
}

// CurrentSession returns the restored session, or nil when none is persisted.
func (srv *remoteIdentityService) CurrentSession(ctx context.Context) (*entity.Session, error) {
	session, err := srv.sessionRepo.Load(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, nil
		}

		return nil, errors.Wrap(err, "failed to load session")
	}

	return session, nil
}

func (srv *remoteIdentityService) openSession(ctx context.Context, account *entity.Account) (*usecase.AuthOutput, error) {
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

// mapProviderError collapses provider failures into the two user-visible
// outcomes: a rejection maps to the operation's domain error, everything else
// to IdentityUnavailable. No provider error codes leak to callers.
func (srv *remoteIdentityService) mapProviderError(ctx context.Context, err error, rejected *domainerrors.BaseError, msg string) error {
	if errors.Is(err, service.ErrProviderRejected) {
		srv.log(ctx).Warn("Identity provider rejected request", slog.Any("error", err))

		return errors.Wrap(rejected, msg)
	}

	srv.log(ctx).Error("Identity provider unavailable", slog.Any("error", err))

	return errors.Wrap(domainerrors.ErrIdentityUnavailable, msg)
}
