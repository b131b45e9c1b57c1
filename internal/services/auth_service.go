package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/grupolocar/locar-api/internal/logging"
	"github.com/grupolocar/locar-api/internal/models"
	"github.com/grupolocar/locar-api/internal/observability"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserFinder looks up accounts by username
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthService issues and validates the HS256 tokens of the API
type AuthService struct {
	users    UserFinder
	throttle *LoginThrottle
	secret   []byte
	ttl      time.Duration
	logger   *logging.SafeLogger
	now      func() time.Time
}

// NewAuthService creates the service; throttle may be nil
func NewAuthService(users UserFinder, throttle *LoginThrottle, secret string, ttl time.Duration, logger *logging.SafeLogger) *AuthService {
	return &AuthService{
		users:    users,
		throttle: throttle,
		secret:   []byte(secret),
		ttl:      ttl,
		logger:   logger.Named("auth"),
		now:      time.Now,
	}
}

// Login checks the credentials and returns a signed token with the user summary
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		observability.LoginAttempts.WithLabelValues("missing_credentials").Inc()
		return nil, models.ErrMissingCredentials
	}

	if !s.throttle.Allow(ctx, username) {
		observability.LoginAttempts.WithLabelValues("throttled").Inc()
		s.logger.Warn("login throttled", zap.String("username", username))
		return nil, models.ErrTooManyLoginAttempts
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			s.throttle.RecordFailure(ctx, username)
			observability.LoginAttempts.WithLabelValues("invalid").Inc()
			return nil, models.ErrInvalidCredentials
		}
		observability.LoginAttempts.WithLabelValues("error").Inc()
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		s.throttle.RecordFailure(ctx, username)
		observability.LoginAttempts.WithLabelValues("invalid").Inc()
		return nil, models.ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		observability.LoginAttempts.WithLabelValues("error").Inc()
		return nil, err
	}

	s.throttle.Reset(ctx, username)
	observability.LoginAttempts.WithLabelValues("success").Inc()
	s.logger.Info("user logged in", zap.String("username", user.Username), zap.String("role", user.Role))

	return &models.LoginResponse{Token: token, Usuario: user.Summary()}, nil
}

// IssueToken signs the claims of user, valid for the configured lifetime
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := s.now()
	claims := models.AuthClaims{
		ID:       user.ID.Hex(),
		Role:     user.Role,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates signature and expiry and returns the claims
func (s *AuthService) ParseToken(tokenString string) (*models.AuthClaims, error) {
	claims := &models.AuthClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidToken, err)
	}
	return claims, nil
}
