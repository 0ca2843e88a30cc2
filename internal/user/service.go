package user

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"bookstore-be/internal/logger"

	"go.uber.org/zap"
)

const minPasswordLength = 8

type Service interface {
	Register(ctx context.Context, email, password string) (*User, error)
	Login(ctx context.Context, email, password string) (string, error)
}

type service struct {
	repo      Repository
	jwtSecret string
	jwtTTL    time.Duration
}

func NewService(repo Repository, jwtSecret string, jwtTTL time.Duration) Service {
	return &service{repo: repo, jwtSecret: jwtSecret, jwtTTL: jwtTTL}
}

func (s *service) Register(ctx context.Context, email, password string) (*User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Register"),
	)

	email = strings.TrimSpace(email)
	if err := validateCredentials(email, password, true); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hashed, err := HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return nil, err
	}

	u, err := s.repo.Create(ctx, email, hashed)
	if err != nil {
		log.Error("failed to create user", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	log.Info("user registered", zap.Int64("user_id", u.ID))
	return u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Login"),
	)

	email = strings.TrimSpace(email)
	if err := validateCredentials(email, password, false); err != nil {
		return "", err
	}

	u, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		log.Debug("email not found")
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if !CheckPasswordHash(password, u.Password) {
		log.Debug("password does not match", zap.Int64("user_id", u.ID))
		return "", ErrInvalidCredentials
	}

	return GenerateJWT(s.jwtSecret, s.jwtTTL, u)
}

func validateCredentials(email, password string, checkLength bool) error {
	if email == "" {
		return ErrEmailRequired
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return ErrEmailInvalid
	}
	if password == "" {
		return ErrPasswordMissing
	}
	if checkLength && len(password) < minPasswordLength {
		return ErrPasswordShort
	}
	return nil
}
