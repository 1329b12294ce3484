package service

import (
	"context"
	"errors"
	"fmt"

	"blog-api/internal/model"
	"blog-api/internal/repository"
	"blog-api/pkg/apierror"
)

type AuthService struct {
	users  repository.UserRepository
	hasher PasswordHasher
	tokens *TokenService
}

func NewAuthService(users repository.UserRepository, hasher PasswordHasher, tokens *TokenService) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens}
}

// Login checks the credentials and issues a token. An unknown username and
// a wrong password produce the same 401.
func (s *AuthService) Login(ctx context.Context, username string, password string) (model.LoginResponse, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.LoginResponse{}, invalidCredentials()
	}
	if err != nil {
		return model.LoginResponse{}, fmt.Errorf("login: %w", err)
	}

	ok, err := s.hasher.Compare(password, user.PasswordHash)
	if err != nil {
		return model.LoginResponse{}, fmt.Errorf("login: %w", err)
	}
	if !ok {
		return model.LoginResponse{}, invalidCredentials()
	}

	token, _, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return model.LoginResponse{}, err
	}

	return model.LoginResponse{Token: token, Username: user.Username, Name: user.Name}, nil
}

func invalidCredentials() error {
	return apierror.Unauthorized(model.ErrInvalidCredentials, "invalid username or password")
}
