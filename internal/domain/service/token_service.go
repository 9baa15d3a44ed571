package service

// TokenClaims is the decoded payload of a session token.
type TokenClaims struct {
	AccountID string
	Username  string
	Role      string
}

// TokenService defines the interface for generating and validating session JWTs.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// GenerateToken creates a signed session token for a given account.
	GenerateToken(accountID, username, role string) (string, error)

	// ValidateToken checks the validity of a token string and returns its claims.
	ValidateToken(tokenString string) (*TokenClaims, error)
}
