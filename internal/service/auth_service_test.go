package service

import (
	"context"
	"testing"
	"time"

	"bloodconnect/internal/config"
	"bloodconnect/internal/repository"
	"bloodconnect/internal/session"
)

func setupAS(t *testing.T) *AuthService {
	t.Helper()
	users := repository.NewMemoryUsers(repository.NewMemoryStore())
	return NewAuthService(users, session.NewMemoryStore(), &config.AuthConfig{
		AdminEmails: []string{"admin@bloodconnect.com"},
		SessionTTL:  time.Hour,
	})
}

func register(t *testing.T, as *AuthService, email, password string) string {
	t.Helper()
	_, token, err := as.Register(context.Background(), RegisterInput{
		FullName:        "John Doe",
		Email:           email,
		Phone:           "123",
		Password:        password,
		ConfirmPassword: password,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return token
}

func TestAuth_RegisterAndCurrentUser(t *testing.T) {
	ctx := context.Background()
	as := setupAS(t)

	token := register(t, as, "john@example.com", "secret123")
	if token == "" {
		t.Fatalf("expected session token")
	}

	sess, err := as.CurrentUser(ctx, token)
	if err != nil || sess.Email != "john@example.com" {
		t.Fatalf("current user: %v %+v", err, sess)
	}
}

func TestAuth_Register_Invalid(t *testing.T) {
	ctx := context.Background()
	as := setupAS(t)

	if _, _, err := as.Register(ctx, RegisterInput{Email: "a@b.c", Phone: "1", Password: "p", ConfirmPassword: "p"}); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, _, err := as.Register(ctx, RegisterInput{FullName: "J", Email: "a@b.c", Phone: "1", Password: "p", ConfirmPassword: "q"}); err != ErrPasswordMismatch {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
	if _, _, err := as.Register(ctx, RegisterInput{FullName: "J", Email: "not-an-email", Phone: "1", Password: "p", ConfirmPassword: "p"}); err != ErrInvalidEmail {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}

	register(t, as, "taken@example.com", "secret123")
	if _, _, err := as.Register(ctx, RegisterInput{FullName: "J", Email: "taken@example.com", Phone: "1", Password: "p", ConfirmPassword: "p"}); err != ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuth_LoginFlow(t *testing.T) {
	ctx := context.Background()
	as := setupAS(t)
	register(t, as, "john@example.com", "secret123")

	u, token, err := as.Login(ctx, "john@example.com", "secret123")
	if err != nil || u.Email != "john@example.com" || token == "" {
		t.Fatalf("login: %v", err)
	}

	// форма входа обрезает пробелы вокруг email и пароля
	if _, _, err := as.Login(ctx, "  john@example.com  ", "  secret123  "); err != nil {
		t.Fatalf("trimmed login: %v", err)
	}

	if _, _, err := as.Login(ctx, "john@example.com", "wrong"); err != ErrWrongPassword {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
	if _, _, err := as.Login(ctx, "nobody@example.com", "secret123"); err != ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, _, err := as.Login(ctx, "broken email", "secret123"); err != ErrInvalidEmail {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestAuth_Logout(t *testing.T) {
	ctx := context.Background()
	as := setupAS(t)
	token := register(t, as, "john@example.com", "secret123")

	if err := as.Logout(ctx, token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := as.CurrentUser(ctx, token); err != session.ErrNotFound {
		t.Fatalf("expected session gone, got %v", err)
	}

	// повторный logout с тем же токеном — не ошибка
	if err := as.Logout(ctx, token); err != nil {
		t.Fatalf("repeated logout: %v", err)
	}
}

func TestAuth_IsAdmin(t *testing.T) {
	as := setupAS(t)
	if !as.IsAdmin("admin@bloodconnect.com") {
		t.Fatalf("expected admin")
	}
	if as.IsAdmin("Admin@bloodconnect.com") {
		t.Fatalf("match must be exact, case included")
	}
	if as.IsAdmin("user@example.com") {
		t.Fatalf("expected non-admin")
	}
}
