package service

import (
	"context"
	"errors"
	"strings"

	"github.com/openlearnco/campus/internal/auth/domain"
	"github.com/openlearnco/campus/internal/auth/store"
	"github.com/openlearnco/campus/pkg/cryptox"
)

const (
	minPasswordLength = 8
	maxUsernameLength = 64
)

var (
	ErrUsernameTaken   = errors.New("username_taken")
	ErrInvalidUsername = errors.New("invalid_username")
	ErrWeakPassword    = errors.New("weak_password")
	ErrUserNotFound    = errors.New("user_not_found")
)

type UserService struct {
	Store store.Store
}

// Register creates a new account and returns it with the generated id.
func (s *UserService) Register(ctx context.Context, username, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(username) > maxUsernameLength {
		return domain.User{}, ErrInvalidUsername
	}
	if len(password) < minPasswordLength {
		return domain.User{}, ErrWeakPassword
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	id, err := s.Store.Users().CreateUser(ctx, domain.User{
		Username:     username,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrUsernameTaken
		}
		return domain.User{}, err
	}

	return s.Get(ctx, id)
}

func (s *UserService) Get(ctx context.Context, id int64) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}
