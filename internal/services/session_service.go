package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dailydiet/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

// SessionService resolves the opaque session token a visitor carries and
// maps it to zero or one registered user.
type SessionService struct {
	userRepo repositories.UserRepository
	secret   []byte        // empty: the cookie value is the bare token
	maxAge   time.Duration // cookie lifetime, also the signed token expiry
}

// NewSessionService creates a new SessionService. An empty secret keeps the
// cookie a bare capability token; a non-empty one wraps it in an HS256 JWT.
func NewSessionService(userRepo repositories.UserRepository, secret string, maxAge time.Duration) *SessionService {
	return &SessionService{
		userRepo: userRepo,
		secret:   []byte(secret),
		maxAge:   maxAge,
	}
}

// MaxAge is how long an issued session cookie lives.
func (s *SessionService) MaxAge() time.Duration {
	return s.maxAge
}

// NewToken generates a fresh session token.
func (s *SessionService) NewToken() string {
	return uuid.New().String()
}

// ResolveOrIssue extracts the session token carried by cookieValue. When the
// value is absent or not a valid token, a new one is generated and isNew
// tells the caller to persist it.
func (s *SessionService) ResolveOrIssue(cookieValue string) (token string, isNew bool) {
	if cookieValue != "" {
		if token, err := s.decode(cookieValue); err == nil {
			return token, false
		}
	}
	return s.NewToken(), true
}

// CookieValue renders token into the value stored in the session cookie.
func (s *SessionService) CookieValue(token string) (string, error) {
	if len(s.secret) == 0 {
		return token, nil
	}
	now := time.Now()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": token,
		"iat": now.Unix(),
		"exp": now.Add(s.maxAge).Unix(),
	}).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// LookupUser returns the ID of the user linked to token, if any.
func (s *SessionService) LookupUser(ctx context.Context, token string) (string, bool, error) {
	user, err := s.userRepo.GetBySessionID(ctx, token)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to resolve session: %w", err)
	}
	return user.ID, true, nil
}

func (s *SessionService) decode(cookieValue string) (string, error) {
	raw := cookieValue
	if len(s.secret) > 0 {
		parsed, err := jwt.Parse(cookieValue, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		})
		if err != nil {
			return "", fmt.Errorf("invalid session token: %w", err)
		}
		claims, ok := parsed.Claims.(jwt.MapClaims)
		if !ok || !parsed.Valid {
			return "", fmt.Errorf("invalid session token")
		}
		sid, ok := claims["sid"].(string)
		if !ok {
			return "", fmt.Errorf("session token has no sid claim")
		}
		raw = sid
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("malformed session token: %w", err)
	}
	return id.String(), nil
}
