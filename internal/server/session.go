package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/goliatone/go-formsubmit/internal/server/store"
)

// CookieName is the session cookie.
const CookieName = "token"

var errInvalidSession = errors.New("server: invalid session token")

// Claims is the JWT payload stored in the session cookie. The subject is the
// user id.
type Claims struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	jwt.RegisteredClaims
}

// Sessions issues and verifies HS256 session tokens.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewSessions builds a session manager. A zero ttl falls back to seven days.
func NewSessions(secret string, ttl time.Duration, secure bool) (*Sessions, error) {
	if secret == "" {
		return nil, errors.New("server: session secret is required")
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Sessions{
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
		now:    time.Now,
	}, nil
}

// Token signs a token for user.
func (s *Sessions) Token(user store.User) (string, error) {
	now := s.now()
	claims := Claims{
		Email:     user.Email,
		FirstName: user.FirstName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("server: sign session: %w", err)
	}
	return signed, nil
}

// Parse verifies raw and returns its claims.
func (s *Sessions) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidSession, err)
	}
	if !token.Valid {
		return nil, errInvalidSession
	}
	return claims, nil
}

// Issue signs a token for user and sets the session cookie.
func (s *Sessions) Issue(c *gin.Context, user store.User) error {
	token, err := s.Token(user)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(s.ttl/time.Second), "/", "", s.secure, true)
	return nil
}

// Current returns the claims of the request's session, if any.
func (s *Sessions) Current(c *gin.Context) (*Claims, bool) {
	raw, err := c.Cookie(CookieName)
	if err != nil || raw == "" {
		return nil, false
	}
	claims, err := s.Parse(raw)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// Clear expires the session cookie.
func (s *Sessions) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", s.secure, true)
}

// RequireSession redirects requests without a valid session to /login.
func (s *Sessions) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := s.Current(c)
		if !ok {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

const claimsKey = "formsubmit.claims"

func claimsFrom(c *gin.Context) *Claims {
	value, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := value.(*Claims)
	return claims
}
