package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"google.golang.org/api/idtoken"
)

const (
	sessionCookie = "sid"
	sessionTTL    = 7 * 24 * time.Hour
)

// ErrInvalidSession is returned when a session cookie is missing, malformed,
// badly signed or expired.
var ErrInvalidSession = errors.New("invalid session")

// User is the identity taken from a verified Google ID token.
type User struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// IDTokenVerifier checks a Google ID token issued for audience.
type IDTokenVerifier interface {
	Verify(ctx context.Context, token, audience string) (User, error)
}

// GoogleVerifier verifies ID tokens against Google's published keys.
type GoogleVerifier struct{}

// Verify implements IDTokenVerifier.
func (GoogleVerifier) Verify(ctx context.Context, token, audience string) (User, error) {
	payload, err := idtoken.Validate(ctx, token, audience)
	if err != nil {
		return User{}, err
	}
	claim := func(name string) string {
		v, _ := payload.Claims[name].(string)
		return v
	}
	return User{
		Sub:     payload.Subject,
		Email:   claim("email"),
		Name:    claim("name"),
		Picture: claim("picture"),
	}, nil
}

type sessionClaims struct {
	UID     string `json:"uid"`
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// SessionIssuer mints and checks HS256 session tokens.
type SessionIssuer struct {
	secret []byte
	now    func() time.Time
}

// NewSessionIssuer creates an issuer signing with secret.
func NewSessionIssuer(secret string, now func() time.Time) *SessionIssuer {
	if now == nil {
		now = time.Now
	}
	return &SessionIssuer{secret: []byte(secret), now: now}
}

// Issue returns a signed token for user, valid for seven days.
func (s *SessionIssuer) Issue(u User) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("%w: empty secret", ErrInvalidSession)
	}
	now := s.now()
	claims := sessionClaims{
		UID:     u.Sub,
		Email:   u.Email,
		Name:    u.Name,
		Picture: u.Picture,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return token, nil
}

// Parse validates token and returns the user it was issued for.
func (s *SessionIssuer) Parse(token string) (User, error) {
	if len(s.secret) == 0 || token == "" {
		return User{}, ErrInvalidSession
	}
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return User{}, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}
	return User{Sub: claims.UID, Email: claims.Email, Name: claims.Name, Picture: claims.Picture}, nil
}

func sessionCookieFor(token string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionTTL / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func clearedSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
