package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

const (
	issuer     = "surveyd"
	defaultTTL = 24 * time.Hour
)

type Config struct {
	Username string
	// Password is plain text or a bcrypt hash.
	Password string
	Secret   string
	TTL      time.Duration
}

type Servicer interface {
	Login(ctx context.Context, username, password string) (token string, expiresAt time.Time, err error)
	Validate(ctx context.Context, token string) (username string, err error)
	TTL() time.Duration
}

// Service проверяет учётные данные администратора и выдаёт подписанные сессии.
type Service struct {
	cfg Config
	log *slog.Logger
	now func() time.Time
}

func NewService(cfg Config, log *slog.Logger) *Service {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	log = log.With("component", "auth_service")
	switch {
	case cfg.Password == "":
		log.Warn("admin password is not set, every login will be rejected")
	case !IsHash(cfg.Password):
		if err := CheckStrength(cfg.Password); err != nil {
			log.Warn("admin password is weak", "error", err)
		}
	}
	if cfg.Secret == "" {
		// Сессии переживут только этот процесс.
		cfg.Secret = rand.Text()
		log.Warn("SESSION_SECRET is not set, using a random per-process secret")
	}
	return &Service{
		cfg: cfg,
		log: log,
		now: time.Now,
	}
}

func (s *Service) TTL() time.Duration {
	return s.cfg.TTL
}

// Login returns a session token on an exact credential match.
func (s *Service) Login(_ context.Context, username, password string) (string, time.Time, error) {
	if s.cfg.Password == "" || !s.checkUsername(username) || !s.checkPassword(password) {
		s.log.Debug("login rejected", "username", username)
		return "", time.Time{}, ErrInvalidCredentials
	}

	now := s.now()
	expiresAt := now.Add(s.cfg.TTL)
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return token, expiresAt, nil
}

// Validate checks signature, issuer and expiry and returns the session subject.
func (s *Service) Validate(_ context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrInvalidToken
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return []byte(s.cfg.Secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			s.log.Debug("session expired", "subject", claims.Subject)
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !s.checkUsername(claims.Subject) {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func (s *Service) checkUsername(username string) bool {
	return subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.Username)) == 1
}

func (s *Service) checkPassword(password string) bool {
	if IsHash(s.cfg.Password) {
		return bcrypt.CompareHashAndPassword([]byte(s.cfg.Password), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Password)) == 1
}

// IsHash reports whether s looks like a bcrypt hash.
func IsHash(s string) bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

// HashPassword returns a bcrypt hash suitable for ADMIN_PASSWORD.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
