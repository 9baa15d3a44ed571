package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"surplus/config"
	"surplus/internal/delivery"
	"surplus/internal/delivery/http"
	"surplus/internal/delivery/http/middleware"
	"surplus/internal/delivery/http/router/handler"
	"surplus/internal/domain/repository"
	"surplus/internal/domain/service"
	"surplus/internal/infra/auth"
	"surplus/internal/infra/identity"
	logs "surplus/internal/infra/log"
	"surplus/internal/infra/persistence/localstore"
	"surplus/internal/infra/qrcode"
	"surplus/internal/usecase"
	"surplus/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		localstore.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			localstore.NewAccountRepository,
			localstore.NewSessionRepository,
			localstore.NewListingRepository,
			localstore.NewRoleMarkerRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			newQRCodeService,
		),
	)
}

// newQRCodeService creates a QR code service with dependency injection
func newQRCodeService(cfg *config.Config) service.QRCodeService {
	if cfg.QRCode == nil {
		// Use default values if not configured
		return qrcode.NewQRCodeService(256, "M")
	}

	return qrcode.NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel)
}

type identityUsecaseParams struct {
	fx.In

	Ctx          context.Context
	Config       *config.Config
	Logger       *slog.Logger
	AccountRepo  repository.AccountRepository
	SessionRepo  repository.SessionRepository
	RoleRepo     repository.RoleMarkerRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
}

// newIdentityUsecase picks the identity backend once at startup: the remote
// provider when Firebase is configured, the local fallback store otherwise.
func newIdentityUsecase(params identityUsecaseParams) (usecase.IdentityUsecase, error) {
	if params.Config.Firebase == nil {
		return impl.NewLocalIdentityService(impl.LocalIdentityServiceParams{
			AccountRepo:  params.AccountRepo,
			SessionRepo:  params.SessionRepo,
			Hasher:       params.Hasher,
			TokenService: params.TokenService,
			Logger:       params.Logger,
		}), nil
	}

	provider, err := identity.NewFirebaseProvider(
		params.Ctx,
		params.Config.Firebase.ProjectID,
		params.Config.Firebase.CredentialsPath,
		params.Config.Firebase.APIKey,
		params.Logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity provider: %w", err)
	}

	return impl.NewRemoteIdentityService(impl.RemoteIdentityServiceParams{
		Provider:     provider,
		RoleRepo:     params.RoleRepo,
		SessionRepo:  params.SessionRepo,
		TokenService: params.TokenService,
		Logger:       params.Logger,
	}), nil
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			newIdentityUsecase,
			impl.NewListingService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
			middleware.NewRequestIDMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewIdentityHandler,
			handler.NewListingHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
