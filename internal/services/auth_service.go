package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"gradepulse/internal/roster"
	"gradepulse/pkg/contracts/domain"
)

// ErrInvalidToken reports a token that is missing, malformed, expired, or
// signed with the wrong key.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the session claims embedded in issued tokens.
type Claims struct {
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthService verifies roster credentials and issues signed session tokens.
type AuthService struct {
	roster *roster.Service
	secret []byte
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// NewAuthService creates an auth service signing tokens with secret for ttl.
// A nil logger falls back to slog.Default.
func NewAuthService(r *roster.Service, secret string, ttl time.Duration, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		roster: r,
		secret: []byte(secret),
		ttl:    ttl,
		logger: logger.With(slog.String("service", "auth")),
		now:    time.Now,
	}
}

// Login verifies the candidate credentials and returns a signed token plus
// the authenticated user. Unknown users and wrong passwords are
// indistinguishable: both surface roster.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := s.roster.Verify(ctx, username, password)
	if err != nil {
		if errors.Is(err, roster.ErrInvalidCredentials) {
			s.logger.InfoContext(ctx, "login rejected",
				slog.String("username", username))
		} else {
			s.logger.ErrorContext(ctx, "credential roster unavailable",
				slog.String("error", err.Error()))
		}
		return "", nil, err
	}

	now := s.now()
	claims := Claims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	s.logger.InfoContext(ctx, "login succeeded",
		slog.String("username", user.Username),
		slog.String("role", string(user.Role)))
	return token, user, nil
}

// ValidateToken parses and verifies a session token and returns its claims.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
