package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"evcast/backend/libs/auth"
	"evcast/backend/services/auth-service/internal/models"
	"evcast/backend/services/auth-service/internal/password"
	"evcast/backend/services/auth-service/internal/repository"
)

var (
	// ErrEmailInUse is returned when attempting to register duplicate email.
	ErrEmailInUse = errors.New("auth: email already registered")
	// ErrInvalidCredentials represents login failure.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrInvalidToken is returned for unusable refresh tokens.
	ErrInvalidToken = errors.New("auth: invalid refresh token")
	// ErrInvalidInput wraps signup validation failures.
	ErrInvalidInput = errors.New("auth: invalid input")
)

// UserRepository defines storage contract used by the service.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// TokenIssuer issues and validates JWT pairs.
type TokenIssuer interface {
	IssuePair(email, username string) (*auth.Pair, error)
	ValidateToken(token, kind string) (*auth.Claims, error)
}

// Session is a login result.
type Session struct {
	User   *models.User `json:"user"`
	Tokens *auth.Pair   `json:"tokens"`
}

// AuthService contains registration/login logic.
type AuthService struct {
	repo   UserRepository
	hasher password.Hasher
	tokens TokenIssuer
	logger *zap.Logger
}

// NewAuthService builds AuthService.
func NewAuthService(repo UserRepository, hasher password.Hasher, tokens TokenIssuer, logger *zap.Logger) *AuthService {
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

// Signup registers a new user. Email, password and username are all required.
func (s *AuthService) Signup(ctx context.Context, email, pass, username string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)
	if email == "" || pass == "" || username == "" {
		return nil, fmt.Errorf("%w: email, password and username are required", ErrInvalidInput)
	}
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	if err := password.Validate(pass); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(pass)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrEmailInUse
		}
		return nil, err
	}

	s.logger.Info("user signed up", zap.Int64("user_id", user.ID), zap.String("email", user.Email))
	return user, nil
}

// Login authenticates a user and issues a token pair.
func (s *AuthService) Login(ctx context.Context, email, pass string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || pass == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, pass); err != nil {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(user.Email, user.Username)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Tokens: pair}, nil
}

// Refresh exchanges a refresh token for a new pair. The user must still exist.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	claims, err := s.tokens.ValidateToken(strings.TrimSpace(refreshToken), auth.KindRefresh)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.repo.GetByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	pair, err := s.tokens.IssuePair(user.Email, user.Username)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("token refreshed", zap.String("email", user.Email))
	return &Session{User: user, Tokens: pair}, nil
}
