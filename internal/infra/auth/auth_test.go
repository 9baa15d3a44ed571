package auth

import (
	"testing"

	"surplus/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig(secret string) *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Session = secret
	cfg.Auth = &config.AuthConfig{BcryptCost: bcrypt.MinCost}

	return cfg
}

func TestNewJWTService_RequiresSecret(t *testing.T) {
	_, err := NewJWTService(testConfig(""))
	assert.Error(t, err)
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc, err := NewJWTService(testConfig("test-secret"))
	require.NoError(t, err)

	token, err := svc.GenerateToken("acc-42", "Alex", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "acc-42", claims.AccountID)
	assert.Equal(t, "Alex", claims.Username)
	assert.Equal(t, "admin", claims.Role)
}

func TestJWTService_ValidateToken_RejectsWrongSecret(t *testing.T) {
	issuer, err := NewJWTService(testConfig("secret-one"))
	require.NoError(t, err)
	verifier, err := NewJWTService(testConfig("secret-two"))
	require.NoError(t, err)

	token, err := issuer.GenerateToken("acc-42", "Alex", "admin")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_ValidateToken_RejectsGarbage(t *testing.T) {
	svc, err := NewJWTService(testConfig("test-secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := NewBcryptHasher(testConfig("unused"))

	hash, err := hasher.Hash("admin123")
	require.NoError(t, err)
	assert.NotEqual(t, "admin123", hash)

	assert.True(t, hasher.Check("admin123", hash))
	assert.False(t, hasher.Check("wrong", hash))
}

func TestBcryptHasher_SaltsEveryHash(t *testing.T) {
	hasher := NewBcryptHasher(testConfig("unused"))

	first, err := hasher.Hash("admin123")
	require.NoError(t, err)
	second, err := hasher.Hash("admin123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestNewBcryptHasher_ClampsOutOfRangeCost(t *testing.T) {
	cfg := testConfig("unused")
	cfg.Auth.BcryptCost = 99 // out of range, falls back to the default

	hasher := NewBcryptHasher(cfg)
	hash, err := hasher.Hash("admin123")
	require.NoError(t, err)
	assert.True(t, hasher.Check("admin123", hash))
}
