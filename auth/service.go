// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/danielhkuo/rankstuff/models"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 50
	minPasswordLength = 8
)

// UserStore persists accounts. Lookups report absence with ok == false.
type UserStore interface {
	InsertUser(ctx context.Context, u models.User) error
	GetUser(ctx context.Context, id string) (u models.User, ok bool, err error)
	GetUserByEmail(ctx context.Context, email string) (u models.User, ok bool, err error)
	GetUserByUsername(ctx context.Context, username string) (u models.User, ok bool, err error)
}

// Service registers users, logs them in and resolves bearer tokens to
// caller identities.
type Service struct {
	users  UserStore
	tokens *TokenService
}

func NewService(users UserStore, tokens *TokenService) *Service {
	return &Service{users: users, tokens: tokens}
}

// Tokens exposes the token service for request authentication.
func (s *Service) Tokens() *TokenService {
	return s.tokens
}

// Register creates an active account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return models.User{}, fmt.Errorf("%w: email is not valid", ErrInvalidUser)
	}
	if n := utf8.RuneCountInString(username); n < minUsernameLength || n > maxUsernameLength {
		return models.User{}, fmt.Errorf("%w: username must be %d-%d characters", ErrInvalidUser, minUsernameLength, maxUsernameLength)
	}
	if len(req.Password) < minPasswordLength {
		return models.User{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidUser, minPasswordLength)
	}
	if len(req.Password) > maxPasswordBytes {
		return models.User{}, fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidUser, maxPasswordBytes)
	}

	if _, ok, err := s.users.GetUserByEmail(ctx, email); err != nil {
		return models.User{}, fmt.Errorf("failed to check email: %w", err)
	} else if ok {
		return models.User{}, ErrEmailTaken
	}
	if _, ok, err := s.users.GetUserByUsername(ctx, username); err != nil {
		return models.User{}, fmt.Errorf("failed to check username: %w", err)
	} else if ok {
		return models.User{}, ErrUsernameTaken
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	u := models.User{
		ID:             uuid.NewString(),
		Email:          email,
		Username:       username,
		HashedPassword: hashed,
		CreatedAt:      time.Now().UTC(),
		IsActive:       true,
	}
	if err := s.users.InsertUser(ctx, u); err != nil {
		if errors.Is(err, ErrDuplicateUser) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	slog.Info("user registered", "user_id", u.ID, "username", u.Username)
	return u, nil
}

// Login authenticates by email or username and returns a bearer token.
func (s *Service) Login(ctx context.Context, identifier, password string) (string, error) {
	identifier = strings.TrimSpace(identifier)

	u, ok, err := s.users.GetUserByEmail(ctx, strings.ToLower(identifier))
	if err != nil {
		return "", fmt.Errorf("failed to look up user: %w", err)
	}
	if !ok {
		u, ok, err = s.users.GetUserByUsername(ctx, identifier)
		if err != nil {
			return "", fmt.Errorf("failed to look up user: %w", err)
		}
	}

	if !ok || !CheckPassword(password, u.HashedPassword) {
		return "", ErrInvalidCredentials
	}
	if !u.IsActive {
		return "", ErrInactiveUser
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}

// Current returns the account behind a verified user id.
func (s *Service) Current(ctx context.Context, userID string) (models.User, error) {
	u, ok, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return u, nil
}
