package impl

import (
	"context"
	"log/slog"
	"testing"

	"surplus/internal/domain/entity"
	domainerrors "surplus/internal/domain/errors"
	"surplus/internal/domain/repository"
	"surplus/internal/domain/service"
	"surplus/internal/infra/persistence/localstore"
	"surplus/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

// stubProvider is a scriptable remote identity backend.
type stubProvider struct {
	accounts        map[string]string // username -> password
	externalIDs     map[string]string // username -> external ID
	displayNames    map[string]string // external ID -> display name
	unavailable     bool
	signOutErr      error
	signOutCalls    int
	displayNameErrs bool
}

func newStubProvider() *stubProvider {
	return &stubProvider{
		accounts:     map[string]string{},
		externalIDs:  map[string]string{},
		displayNames: map[string]string{},
	}
}

func (p *stubProvider) CreateAccount(ctx context.Context, username, password string) (string, error) {
	if p.unavailable {
		return "", service.ErrProviderUnavailable
	}
	if _, exists := p.accounts[username]; exists {
		return "", service.ErrProviderRejected
	}

	externalID := "uid-" + username
	p.accounts[username] = password
	p.externalIDs[username] = externalID

	return externalID, nil
}

func (p *stubProvider) Authenticate(ctx context.Context, username, password string) (string, string, error) {
	if p.unavailable {
		return "", "", service.ErrProviderUnavailable
	}
	stored, exists := p.accounts[username]
	if !exists || stored != password {
		return "", "", service.ErrProviderRejected
	}

	externalID := p.externalIDs[username]

	return externalID, p.displayNames[externalID], nil
}

func (p *stubProvider) SetDisplayName(ctx context.Context, externalID, displayName string) error {
	if p.displayNameErrs {
		return service.ErrProviderUnavailable
	}
	p.displayNames[externalID] = displayName

	return nil
}

func (p *stubProvider) SignOut(ctx context.Context) error {
	p.signOutCalls++

	return p.signOutErr
}

// remoteIdentityFixtures holds all test dependencies for the remote backend.
type remoteIdentityFixtures struct {
	service     usecase.IdentityUsecase
	provider    *stubProvider
	roleRepo    repository.RoleMarkerRepository
	sessionRepo repository.SessionRepository
}

func createTestRemoteIdentityService(t *testing.T) remoteIdentityFixtures {
	t.Helper()

	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = bucket.Close() })
	store := localstore.NewWithBucket(bucket)

	provider := newStubProvider()
	roleRepo := localstore.NewRoleMarkerRepository(store)
	sessionRepo := localstore.NewSessionRepository(store)

	svc := NewRemoteIdentityService(RemoteIdentityServiceParams{
		Provider:     provider,
		RoleRepo:     roleRepo,
		SessionRepo:  sessionRepo,
		TokenService: fakeTokenService{},
		Logger:       slog.Default(),
	})

	return remoteIdentityFixtures{
		service:     svc,
		provider:    provider,
		roleRepo:    roleRepo,
		sessionRepo: sessionRepo,
	}
}

func TestRemoteIdentityService_Register_RecordsRoleMarker(t *testing.T) {
	fx := createTestRemoteIdentityService(t)
	ctx := context.Background()

	output, err := fx.service.Register(ctx, &usecase.RegisterInput{
		Username:    "alex",
		Password:    "hunter22",
		Role:        "admin",
		DisplayName: "Alex",
	})
	require.NoError(t, err)

	assert.Equal(t, "uid-alex", output.Account.ID)
	assert.Equal(t, "Alex", output.Account.DisplayName)
	assert.Equal(t, "Alex", fx.provider.displayNames["uid-alex"])

	role, err := fx.roleRepo.Get(ctx, "uid-alex")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, role)
}

func TestRemoteIdentityService_Register_DuplicateMapsToDomainError(t *testing.T) {
	fx := createTestRemoteIdentityService(t)
	ctx := context.Background()

	_, err := fx.service.Register(ctx, &usecase.RegisterInput{Username: "alex", Password: "x", Role: "customer"})
	require.NoError(t, err)

	_, err = fx.service.Register(ctx, &usecase.RegisterInput{Username: "alex", Password: "y", Role: "customer"})
	assert.ErrorIs(t, err, domainerrors.ErrDuplicateUsername)
}

func TestRemoteIdentityService_Register_DisplayNameFailureIsNotFatal(t *testing.T) {
	fx := createTestRemoteIdentityService(t)
	fx.provider.displayNameErrs = true
	ctx := context.Background()

	output, err := fx.service.Register(ctx, &usecase.RegisterInput{
		Username:    "alex",
		Password:    "hunter22",
		Role:        "customer",
		DisplayName: "Alex",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alex", output.Account.DisplayName)
}

func TestRemoteIdentityService_Login_RestoresRole(t *testing.T) {
	fx := createTestRemoteIdentityService(t)
	ctx := context.Background()

	_, err := fx.service.Register(ctx, &usecase.RegisterInput{Username: "alex", Password: "hunter22", Role: "admin"})
	require.NoError(t, err)
	require.NoError(t, fx.service.Logout(ctx))

	output, err := fx.service.Login(ctx, &usecase.LoginInput{Username: "alex", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, output.Account.Role)
	assert.Equal(t, entity.RoleAdmin, output.Session.Role)
}

func TestRemoteIdentityService_Login_MissingMarkerDefaultsToCustomer(t *testing.T) {
	fx := createTestRemoteIdentityService(t)
	ctx := context.Background()

	// Account exists with the provider but no marker was ever recorded
	fx.provider.accounts["drifter"] = "pw"
	fx.provider.externalIDs["drifter"] = "uid-drifter"

	output, err := fx.service.Login(ctx, &usecase.LoginInput{Username: "drifter", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleCustomer, output.Account.Role)
}

func TestRemoteIdentityService_Login_RejectionAndOutage(t *testing.T) {
	fx := createTestRemoteIdentityService(t)
	ctx := context.Background()

	_, err := fx.service.Login(ctx, &usecase.LoginInput{Username: "ghost", Password: "x"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	fx.provider.unavailable = true
	_, err = fx.service.Login(ctx, &usecase.LoginInput{Username: "ghost", Password: "x"})
	assert.ErrorIs(t, err, domainerrors.ErrIdentityUnavailable)
}

func TestRemoteIdentityService_Logout_SwallowsProviderFailure(t *testing.T) {
	fx := createTestRemoteIdentityService(t)
	ctx := context.Background()

	_, err := fx.service.Register(ctx, &usecase.RegisterInput{Username: "alex", Password: "x", Role: "customer"})
	require.NoError(t, err)

	fx.provider.signOutErr = service.ErrProviderUnavailable
	require.NoError(t, fx.service.Logout(ctx))
	assert.Equal(t, 1, fx.provider.signOutCalls)

	session, err := fx.service.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, session)
}
