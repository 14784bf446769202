package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hdoo42/mock-veeam-server/internal/audit"
	"github.com/hdoo42/mock-veeam-server/internal/config"
	"github.com/hdoo42/mock-veeam-server/internal/metrics"
	"github.com/hdoo42/mock-veeam-server/internal/store"

	"github.com/google/uuid"
)

var (
	// ErrInvalidCredentials is returned when the password grant is given
	// anything other than the configured credential pair.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidRefreshToken is returned when a refresh grant presents a
	// token that was never issued.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrUnknownToken is returned when a bearer token was never issued.
	ErrUnknownToken = errors.New("unknown token")

	// ErrExpiredToken is returned when a bearer token is past its lifetime.
	ErrExpiredToken = errors.New("token expired")
)

const TokenTypeBearer = "Bearer"

// Grant type constants (RFC 6749 §4.3 and §6 subset the Veeam API uses)
const (
	GrantTypePassword     = "password"
	GrantTypeRefreshToken = "refresh_token"
)

// TokenPair is the token endpoint success payload.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// TokenService issues and validates the opaque tokens the mock hands out.
// Tokens are never removed from the store; validity is a pure function of
// the issue time, the token lifetime, and the current clock.
type TokenService struct {
	store    *store.MemoryStore
	auditLog *audit.Log
	metrics  metrics.Recorder

	lifetime time.Duration
	username string
	password string

	now func() time.Time
}

func NewTokenService(
	db *store.MemoryStore,
	auditLog *audit.Log,
	m metrics.Recorder,
	cfg *config.Config,
) *TokenService {
	return &TokenService{
		store:    db,
		auditLog: auditLog,
		metrics:  m,
		lifetime: cfg.TokenLifetime,
		username: cfg.Username,
		password: cfg.Password,
		now:      time.Now,
	}
}

// Lifetime returns the configured access token lifetime.
func (s *TokenService) Lifetime() time.Duration {
	return s.lifetime
}

// PasswordGrant mints a fresh access/refresh pair for the configured
// credential pair. Any other credentials fail without issuing anything.
func (s *TokenService) PasswordGrant(
	ctx context.Context,
	username, password string,
) (*TokenPair, error) {
	s.auditLog.Printf("Username: %s", username)

	if username != s.username || password != s.password {
		s.auditLog.Printf("Invalid credentials for user: %s", username)
		s.metrics.RecordGrantAttempt(GrantTypePassword, false)
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issue(ctx, GrantTypePassword)
	if err != nil {
		return nil, err
	}

	s.auditLog.Printf("NEW TOKEN CREATED: %s", pair.AccessToken)
	return pair, nil
}

// RefreshGrant mints a fresh access/refresh pair for a previously issued
// refresh token. The presented refresh token stays usable afterwards: the
// exporter under test may retry with an older token after a crash, and
// single-use rotation would only make the harness flaky.
func (s *TokenService) RefreshGrant(
	ctx context.Context,
	refreshToken string,
) (*TokenPair, error) {
	s.auditLog.Printf("Refresh token received: %s...", audit.Truncate(refreshToken, 20))

	if _, err := s.store.RefreshTokenIssuedAt(ctx, refreshToken); err != nil {
		s.auditLog.Printf("Invalid refresh token")
		s.metrics.RecordGrantAttempt(GrantTypeRefreshToken, false)
		return nil, ErrInvalidRefreshToken
	}

	pair, err := s.issue(ctx, GrantTypeRefreshToken)
	if err != nil {
		return nil, err
	}

	s.auditLog.Printf("TOKEN REFRESHED: %s", pair.AccessToken)
	return pair, nil
}

// Validate checks a bearer access token against the store and the clock.
// A token whose elapsed time equals the lifetime exactly is still valid.
func (s *TokenService) Validate(ctx context.Context, token string) error {
	issuedAt, err := s.store.AccessTokenIssuedAt(ctx, token)
	if err != nil {
		s.auditLog.Printf("Unknown token: %s...", audit.Truncate(token, 20))
		s.metrics.RecordTokenValidation("unknown")
		return ErrUnknownToken
	}

	elapsed := s.now().Sub(issuedAt)
	if elapsed > s.lifetime {
		s.auditLog.Printf("Token EXPIRED! Elapsed: %.1fs", elapsed.Seconds())
		s.metrics.RecordTokenValidation("expired")
		return ErrExpiredToken
	}

	s.auditLog.Printf("Token valid. Elapsed: %.1fs", elapsed.Seconds())
	s.metrics.RecordTokenValidation("valid")
	return nil
}

// issue mints a unique pair and commits it to the store before returning,
// so a client can never see a token that is not yet recorded.
func (s *TokenService) issue(ctx context.Context, grantType string) (*TokenPair, error) {
	pair := &TokenPair{
		AccessToken:  newToken("access"),
		RefreshToken: newToken("refresh"),
		TokenType:    TokenTypeBearer,
		ExpiresIn:    int(s.lifetime.Seconds()),
	}

	if err := s.store.SaveTokenPair(ctx, pair.AccessToken, pair.RefreshToken, s.now()); err != nil {
		return nil, fmt.Errorf("save token pair: %w", err)
	}

	s.metrics.RecordTokenIssued(grantType)
	s.metrics.RecordGrantAttempt(grantType, true)
	s.metrics.SetActiveTokensCount("access", s.store.AccessTokenCount(ctx))
	s.metrics.SetActiveTokensCount("refresh", s.store.RefreshTokenCount(ctx))
	return pair, nil
}

// newToken generates an opaque token. The prefix keeps tokens readable in
// the request log; the UUID guarantees uniqueness under rapid issuance.
func newToken(prefix string) string {
	return prefix + "_" + uuid.NewString()
}
