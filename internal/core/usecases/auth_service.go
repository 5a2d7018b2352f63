package usecases

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/nyayasahayak/legallibrary/internal/core/domain"
	"github.com/nyayasahayak/legallibrary/internal/core/ports"
)

const minPasswordLen = 6

// AuthService delegates credentials to the identity provider and keeps a
// local profile per account.
type AuthService struct {
	idp   ports.IdentityProvider
	users ports.UserRepository
}

// NewAuthService creates a new AuthService. users may be nil, in which case
// no local profile is stored.
func NewAuthService(idp ports.IdentityProvider, users ports.UserRepository) *AuthService {
	return &AuthService{idp: idp, users: users}
}

// SignUp creates a provider account and a local profile.
func (s *AuthService) SignUp(ctx context.Context, name, email, password string) (*domain.User, error) {
	if s.idp == nil {
		return nil, fmt.Errorf("%w: identity provider not configured", domain.ErrUnavailable)
	}
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", domain.ErrInvalidInput)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	}

	uid, err := s.idp.SignUp(ctx, email, password, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}

	u := &domain.User{UID: uid, Email: email, Name: strings.TrimSpace(name), CreatedAt: time.Now()}
	if s.users != nil {
		if err := s.users.Upsert(ctx, u); err != nil {
			return nil, fmt.Errorf("store profile: %w", err)
		}
	}
	return u, nil
}

// Login exchanges email and password for an ID token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	if s.idp == nil {
		return nil, fmt.Errorf("%w: identity provider not configured", domain.ErrUnavailable)
	}
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password required", domain.ErrInvalidInput)
	}
	return s.idp.SignIn(ctx, strings.TrimSpace(email), password)
}

// VerifyToken checks an ID token and returns its subject and claims.
func (s *AuthService) VerifyToken(ctx context.Context, idToken string) (*domain.TokenInfo, error) {
	if s.idp == nil {
		return nil, fmt.Errorf("%w: identity provider not configured", domain.ErrUnavailable)
	}
	if strings.TrimSpace(idToken) == "" {
		return nil, fmt.Errorf("%w: idToken required", domain.ErrUnauthorized)
	}
	return s.idp.VerifyIDToken(ctx, idToken)
}
