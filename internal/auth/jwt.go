// Package auth issues and verifies the bearer tokens that carry a user's
// identity between requests.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"restaurant-ordering-server/internal/model"
)

// ErrInvalidToken is returned for malformed, mis-signed or expired tokens.
var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is the decoded token payload. Handlers consume only this,
// never the token mechanics.
type Identity struct {
	ID       string
	Username string
	IsAdmin  bool
}

// Tokens signs and parses HS256 JWTs.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

// NewTokens creates a token issuer with the given signing secret and
// lifetime.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token carrying the user's id, username and admin flag.
func (t *Tokens) Issue(u *model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":       u.ID,
		"username": u.Username,
		"isAdmin":  u.IsAdmin,
		"iat":      now.Unix(),
		"exp":      now.Add(t.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the token and extracts the identity.
func (t *Tokens) Parse(tokenStr string) (*Identity, error) {
	tkn, err := jwt.Parse(tokenStr, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := tkn.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	id, _ := claims["id"].(string)
	if id == "" {
		return nil, ErrInvalidToken
	}
	username, _ := claims["username"].(string)
	isAdmin, _ := claims["isAdmin"].(bool)
	return &Identity{ID: id, Username: username, IsAdmin: isAdmin}, nil
}
