// Package identity talks to the Firebase Identity Toolkit REST API.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nyayasahayak/legallibrary/internal/core/domain"
	"github.com/nyayasahayak/legallibrary/internal/pkg/httpclient"
)

// Firebase implements ports.IdentityProvider.
type Firebase struct {
	apiKey  string
	baseURL string
	http    *httpclient.Client
}

// NewFirebase creates a client for the project owning apiKey.
func NewFirebase(apiKey, baseURL string) (*Firebase, error) {
	if apiKey == "" {
		return nil, errors.New("identity: api key is required")
	}
	return &Firebase{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpclient.New(10*time.Second, nil),
	}, nil
}

type signUpResponse struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
}

type signInResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

type lookupResponse struct {
	Users []struct {
		LocalID          string `json:"localId"`
		Email            string `json:"email"`
		EmailVerified    bool   `json:"emailVerified"`
		DisplayName      string `json:"displayName"`
		CustomAttributes string `json:"customAttributes"`
		LastLoginAt      string `json:"lastLoginAt"`
		CreatedAt        string `json:"createdAt"`
	} `json:"users"`
}

func (f *Firebase) SignUp(ctx context.Context, email, password, displayName string) (string, error) {
	var out signUpResponse
	err := f.call(ctx, "accounts:signUp", map[string]any{
		"email":             email,
		"password":          password,
		"displayName":       displayName,
		"returnSecureToken": true,
	}, &out)
	if err != nil {
		return "", fmt.Errorf("sign up: %w", err)
	}
	return out.LocalID, nil
}

func (f *Firebase) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	var out signInResponse
	err := f.call(ctx, "accounts:signInWithPassword", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	expires, _ := strconv.Atoi(out.ExpiresIn)
	return &domain.Session{
		UID:          out.LocalID,
		Email:        out.Email,
		IDToken:      out.IDToken,
		RefreshToken: out.RefreshToken,
		ExpiresIn:    expires,
	}, nil
}

// VerifyIDToken resolves the token through accounts:lookup, which rejects
// expired and revoked tokens.
func (f *Firebase) VerifyIDToken(ctx context.Context, idToken string) (*domain.TokenInfo, error) {
	var out lookupResponse
	if err := f.call(ctx, "accounts:lookup", map[string]any{"idToken": idToken}, &out); err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	if len(out.Users) == 0 {
		return nil, fmt.Errorf("verify token: %w", domain.ErrUnauthorized)
	}
	u := out.Users[0]
	claims := map[string]any{
		"uid":            u.LocalID,
		"email":          u.Email,
		"email_verified": u.EmailVerified,
		"name":           u.DisplayName,
	}
	if u.CustomAttributes != "" {
		var custom map[string]any
		if err := json.Unmarshal([]byte(u.CustomAttributes), &custom); err == nil {
			for k, v := range custom {
				claims[k] = v
			}
		}
	}
	return &domain.TokenInfo{UID: u.LocalID, Email: u.Email, Claims: claims}, nil
}

func (f *Firebase) call(ctx context.Context, method string, body, out any) error {
	endpoint := f.baseURL + "/" + method + "?key=" + url.QueryEscape(f.apiKey)
	err := f.http.DecodeJSON(ctx, func() (*http.Request, error) {
		return f.http.NewRequest(ctx, http.MethodPost, endpoint, body)
	}, out)
	if err == nil {
		return nil
	}
	var se *httpclient.StatusError
	if errors.As(err, &se) {
		return mapError(se)
	}
	if httpclient.IsTimeout(err) {
		return domain.ErrUpstreamTimed
	}
	return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
}

// mapError translates Identity Toolkit error codes such as EMAIL_EXISTS or
// "WEAK_PASSWORD : Password should be at least 6 characters".
func mapError(se *httpclient.StatusError) error {
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	_ = json.Unmarshal([]byte(se.Body), &body)
	code, _, _ := strings.Cut(body.Error.Message, " ")

	switch code {
	case "EMAIL_EXISTS":
		return fmt.Errorf("%w: email already registered", domain.ErrConflict)
	case "INVALID_EMAIL", "WEAK_PASSWORD", "MISSING_PASSWORD", "MISSING_EMAIL":
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.ToLower(strings.ReplaceAll(code, "_", " ")))
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED",
		"INVALID_ID_TOKEN", "TOKEN_EXPIRED", "USER_NOT_FOUND":
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, strings.ToLower(strings.ReplaceAll(code, "_", " ")))
	}
	if se.Code == http.StatusBadRequest {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, body.Error.Message)
	}
	return fmt.Errorf("%w: %v", domain.ErrUpstream, se)
}
