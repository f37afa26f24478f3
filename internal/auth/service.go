package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"club-site/internal/logger"
	"club-site/internal/models"
)

// ErrInvalidCredentials is returned for both unknown emails and wrong
// passwords, so a caller cannot probe which emails exist.
var ErrInvalidCredentials = errors.New("invalid email or password")

// UserStore is the slice of the database layer the auth service needs.
type UserStore interface {
	GetAdminByEmail(ctx context.Context, email string) (*models.AdminUser, error)
}

type Service struct {
	Users    UserStore
	Sessions SessionStore
	Secret   string
	TTL      time.Duration
	Logger   *logger.Logger
}

func NewService(users UserStore, sessions SessionStore, secret string, ttl time.Duration, log *logger.Logger) *Service {
	return &Service{
		Users:    users,
		Sessions: sessions,
		Secret:   secret,
		TTL:      ttl,
		Logger:   log,
	}
}

// Login checks the credentials and opens a session. The session lives
// in Redis under the issued token so logout can revoke it early.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.Users.GetAdminByEmail(ctx, req.Email)
	if err != nil {
		s.Logger.LogSecurity("LOGIN_FAILED", fmt.Sprintf("Login attempt for unknown email: %s", req.Email))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.Logger.LogSecurity("LOGIN_FAILED", fmt.Sprintf("Wrong password for %s", req.Email))
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := IssueToken(s.Secret, user.ID, s.TTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	if err := s.Sessions.Put(ctx, token, user.ID, s.TTL); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	s.Logger.Info("AUTH", fmt.Sprintf("Admin %s logged in", req.Email))
	return &models.LoginResponse{Token: token, ExpiresAt: expiresAt}, nil
}

// Logout revokes the session token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.Sessions.Revoke(ctx, token)
}

// Verify checks both the JWT signature and the live session, returning
// the user ID.
func (s *Service) Verify(ctx context.Context, token string) (string, error) {
	userID, err := ParseToken(s.Secret, token)
	if err != nil {
		return "", err
	}

	sessionUser, err := s.Sessions.Lookup(ctx, token)
	if err != nil {
		return "", err
	}
	if sessionUser != userID {
		return "", errors.New("session does not match token")
	}

	return userID, nil
}
