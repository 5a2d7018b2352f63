package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nyayasahayak/legallibrary/internal/core/domain"
	"github.com/nyayasahayak/legallibrary/internal/core/usecases"
)

func TestAuthService_SignUp(t *testing.T) {
	users := &mockUserRepo{}
	idp := &mockIdentity{
		signUpFn: func(ctx context.Context, email, password, name string) (string, error) {
			return "uid-1", nil
		},
	}
	svc := usecases.NewAuthService(idp, users)

	u, err := svc.SignUp(context.Background(), " Asha ", "asha@example.in", "secret123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.UID != "uid-1" || u.Name != "Asha" {
		t.Errorf("unexpected user %+v", u)
	}
	if _, err := users.GetByUID(context.Background(), "uid-1"); err != nil {
		t.Errorf("expected local profile, got %v", err)
	}
}

func TestAuthService_SignUp_Validation(t *testing.T) {
	idp := &mockIdentity{
		signUpFn: func(ctx context.Context, email, password, name string) (string, error) {
			t.Fatal("provider must not be called for invalid input")
			return "", nil
		},
	}
	svc := usecases.NewAuthService(idp, nil)

	if _, err := svc.SignUp(context.Background(), "A", "nope", "secret123"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected invalid email, got %v", err)
	}
	if _, err := svc.SignUp(context.Background(), "A", "a@b.in", "123"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected short password, got %v", err)
	}
}

func TestAuthService_NotConfigured(t *testing.T) {
	svc := usecases.NewAuthService(nil, nil)
	if _, err := svc.Login(context.Background(), "a@b.in", "x"); !errors.Is(err, domain.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
	if _, err := svc.VerifyToken(context.Background(), "tok"); !errors.Is(err, domain.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestAuthService_VerifyToken(t *testing.T) {
	idp := &mockIdentity{
		verifyFn: func(ctx context.Context, token string) (*domain.TokenInfo, error) {
			if token != "good" {
				return nil, domain.ErrUnauthorized
			}
			return &domain.TokenInfo{UID: "uid-1"}, nil
		},
	}
	svc := usecases.NewAuthService(idp, nil)

	info, err := svc.VerifyToken(context.Background(), "good")
	if err != nil || info.UID != "uid-1" {
		t.Fatalf("unexpected result %+v, %v", info, err)
	}
	if _, err := svc.VerifyToken(context.Background(), "bad"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := svc.VerifyToken(context.Background(), ""); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for empty token, got %v", err)
	}
}

func TestChatService_Ask(t *testing.T) {
	var gotSystem, gotUser string
	svc := usecases.NewChatService(&mockCompleter{
		completeFn: func(ctx context.Context, system, user string) (string, error) {
			gotSystem, gotUser = system, user
			return "Section 420 deals with cheating.", nil
		},
	})

	reply, err := svc.Ask(context.Background(), "  What is section 420?  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "Section 420 deals with cheating." {
		t.Errorf("unexpected reply %q", reply)
	}
	if gotUser != "What is section 420?" || gotSystem != usecases.LegalAssistantPrompt {
		t.Errorf("unexpected prompt %q / %q", gotSystem, gotUser)
	}
}

func TestChatService_Errors(t *testing.T) {
	if _, err := usecases.NewChatService(nil).Ask(context.Background(), "hi"); !errors.Is(err, domain.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}

	svc := usecases.NewChatService(&mockCompleter{
		completeFn: func(ctx context.Context, system, user string) (string, error) {
			return "", domain.ErrUpstreamTimed
		},
	})
	if _, err := svc.Ask(context.Background(), "   "); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Ask(context.Background(), "hi"); !errors.Is(err, domain.ErrUpstreamTimed) {
		t.Errorf("expected upstream timeout to pass through, got %v", err)
	}
}
