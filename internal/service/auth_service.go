package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"bloodconnect/internal/config"
	"bloodconnect/internal/crypto"
	"bloodconnect/internal/domain"
	"bloodconnect/internal/repository"
	"bloodconnect/internal/session"
)

var (
	ErrUserNotFound     = errors.New("no account found with this email")
	ErrWrongPassword    = errors.New("incorrect password")
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrEmailTaken       = errors.New("email already registered")
	ErrPasswordMismatch = errors.New("passwords don't match")
)

// AuthService регистрация, вход и проверка прав. Список администраторов —
// точное совпадение email со значением из конфигурации.
type AuthService struct {
	users    repository.UserRepository
	sessions session.Store
	admins   map[string]struct{}
	ttl      time.Duration
}

func NewAuthService(users repository.UserRepository, sessions session.Store, cfg *config.AuthConfig) *AuthService {
	admins := make(map[string]struct{}, len(cfg.AdminEmails))
	for _, e := range cfg.AdminEmails {
		admins[e] = struct{}{}
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{users: users, sessions: sessions, admins: admins, ttl: ttl}
}

// RegisterInput данные формы регистрации
type RegisterInput struct {
	FullName        string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
}

// Register создаёт пользователя и сразу открывает сессию
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	if in.FullName == "" || in.Email == "" || in.Phone == "" || in.Password == "" {
		return nil, "", ErrInvalidInput
	}
	if in.Password != in.ConfirmPassword {
		return nil, "", ErrPasswordMismatch
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, "", ErrInvalidEmail
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", err
	}

	hash, err := crypto.HashPassword(in.Password, nil)
	if err != nil {
		return nil, "", err
	}

	u := domain.User{
		FullName:     in.FullName,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hash,
		Role:         "user",
	}
	if err := s.users.Create(ctx, &u); err != nil {
		return nil, "", err
	}

	token, err := s.startSession(ctx, &u)
	if err != nil {
		return nil, "", err
	}
	return &u, token, nil
}

// Login сверяет пароль и выдаёт токен сессии. Email и пароль обрезаются —
// так делает форма входа; поисковые запросы, напротив, не обрезаются.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return nil, "", ErrInvalidInput
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", ErrInvalidEmail
	}

	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", ErrUserNotFound
	}
	if err != nil {
		return nil, "", err
	}

	ok, err := crypto.VerifyPassword(password, u.PasswordHash)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", ErrWrongPassword
	}

	token, err := s.startSession(ctx, u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Logout закрывает сессию; незнакомый токен — не ошибка
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Del(ctx, token)
}

// CurrentUser возвращает сессию по токену либо session.ErrNotFound
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*session.Session, error) {
	if token == "" {
		return nil, session.ErrNotFound
	}
	return s.sessions.Get(ctx, token)
}

// IsAdmin точное совпадение с allow-list из конфигурации
func (s *AuthService) IsAdmin(email string) bool {
	_, ok := s.admins[email]
	return ok
}

func (s *AuthService) startSession(ctx context.Context, u *domain.User) (string, error) {
	token := uuid.NewString()
	if err := s.sessions.Put(ctx, token, session.Session{UserID: u.ID, Email: u.Email}, s.ttl); err != nil {
		return "", err
	}
	return token, nil
}
