// Package identity contains the remote identity backend implementation.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"surplus/internal/domain/service"
	"surplus/internal/errors"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// signInEndpoint is the Identity Toolkit password sign-in endpoint. Account
// management goes through the Admin SDK, but password verification is only
// exposed through the REST API keyed by the project's web API key.
const signInEndpoint = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"

// firebaseProvider implements service.IdentityProvider on Firebase
// Authentication. Accounts are keyed by the Firebase UID.
type firebaseProvider struct {
	client     *fbauth.Client
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewFirebaseProvider initializes the Firebase app and returns the provider.
func NewFirebaseProvider(ctx context.Context, projectID, credentialsPath, apiKey string, logger *slog.Logger) (service.IdentityProvider, error) {
	opts := []option.ClientOption{}
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get auth client: %w", err)
	}

	return &firebaseProvider{
		client:     client,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}, nil
}

// CreateAccount registers a new account and returns its Firebase UID.
// Usernames are stored as the account email, matching how the web client
// signed accounts up.
func (p *firebaseProvider) CreateAccount(ctx context.Context, username, password string) (string, error) {
	params := (&fbauth.UserToCreate{}).
		Email(username).
		Password(password)

	record, err := p.client.CreateUser(ctx, params)
	if err != nil {
		if fbauth.IsEmailAlreadyExists(err) {
			return "", service.ErrProviderRejected
		}

		p.logger.Error("Firebase account creation failed", slog.Any("error", err))

		return "", errors.Wrap(service.ErrProviderUnavailable, err.Error())
	}

	return record.UID, nil
}

// signInRequest is the Identity Toolkit password sign-in payload.
type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

// signInResponse carries the subset of the sign-in response we consume.
type signInResponse struct {
	LocalID     string `json:"localId"`
	DisplayName string `json:"displayName"`
	Error       *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Authenticate verifies credentials through the REST endpoint and returns the
// Firebase UID and stored display name. Every credential rejection collapses
// to ErrProviderRejected so callers cannot tell which part was wrong.
func (p *firebaseProvider) Authenticate(ctx context.Context, username, password string) (string, string, error) {
	payload, err := json.Marshal(signInRequest{
		Email:             username,
		Password:          password,
		ReturnSecureToken: true,
	})
	if err != nil {
		return "", "", errors.Wrap(err, "failed to encode sign-in request")
	}

	endpoint := signInEndpoint + "?key=" + url.QueryEscape(p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", "", errors.Wrap(err, "failed to build sign-in request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logger.Error("Firebase sign-in request failed", slog.Any("error", err))

		return "", "", errors.Wrap(service.ErrProviderUnavailable, err.Error())
	}
	defer resp.Body.Close()

	var body signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", "", errors.Wrap(service.ErrProviderUnavailable, "failed to decode sign-in response")
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body.LocalID, body.DisplayName, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		// INVALID_PASSWORD, EMAIL_NOT_FOUND, INVALID_LOGIN_CREDENTIALS and
		// friends all end up here, deliberately indistinguishable.
		return "", "", service.ErrProviderRejected
	default:
		return "", "", errors.Wrapf(service.ErrProviderUnavailable, "sign-in returned status %d", resp.StatusCode)
	}
}

// SetDisplayName updates the display name stored with Firebase.
func (p *firebaseProvider) SetDisplayName(ctx context.Context, externalID, displayName string) error {
	params := (&fbauth.UserToUpdate{}).DisplayName(displayName)
	if _, err := p.client.UpdateUser(ctx, externalID, params); err != nil {
		return errors.Wrap(err, "failed to update display name")
	}

	return nil
}

// SignOut is a no-op: the Admin SDK holds no per-user session to drop, and
// token revocation is out of scope for the single-client session model.
func (p *firebaseProvider) SignOut(ctx context.Context) error {
	return nil
}
