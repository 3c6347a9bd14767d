package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"paintgate/internal/apperr"
	"paintgate/internal/models"
)

// ErrInvalidToken is the single outcome for every decode failure. Callers
// must not learn whether a token was expired, malformed, or tampered with.
var ErrInvalidToken = apperr.Authentication("invalid or expired token")

// Claims is the identity snapshot carried by a signed token. Roles reflect
// the user at issuance time, not the live row.
type Claims struct {
	UserID       uint
	Username     string
	Email        string
	Roles        []string
	SessionToken string
	IssuedAt     int64
	ExpiresAt    int64
}

// TokenCodec issues and decodes HS256-signed access tokens bound to a
// session.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenCodec(secret string, defaultTTL time.Duration) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), ttl: defaultTTL}
}

// Issue signs a token for the user bound to sessionToken. Timestamps are
// integer Unix seconds; fractional precision is dropped deliberately.
func (c *TokenCodec) Issue(u *models.User, sessionToken string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = c.ttl
	}
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":        strconv.FormatUint(uint64(u.ID), 10),
		"username":   u.Username,
		"email":      u.Email,
		"roles":      []string(u.Roles),
		"session_id": sessionToken,
		"exp":        now.Add(ttl).Unix(),
		"iat":        now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Decode verifies signature and expiry and extracts the claim set.
func (c *TokenCodec) Decode(tokenStr string) (Claims, error) {
	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	mapc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	var claims Claims
	if sub, _ := mapc["sub"].(string); sub != "" {
		id, err := strconv.ParseUint(sub, 10, 64)
		if err != nil {
			return Claims{}, ErrInvalidToken
		}
		claims.UserID = uint(id)
	}
	claims.Username, _ = mapc["username"].(string)
	claims.Email, _ = mapc["email"].(string)
	claims.SessionToken, _ = mapc["session_id"].(string)
	if arr, ok := mapc["roles"].([]interface{}); ok {
		for _, v := range arr {
			if s, ok := v.(string); ok {
				claims.Roles = append(claims.Roles, s)
			}
		}
	}
	if exp, ok := mapc["exp"].(float64); ok {
		claims.ExpiresAt = int64(exp)
	}
	if iat, ok := mapc["iat"].(float64); ok {
		claims.IssuedAt = int64(iat)
	}
	return claims, nil
}

// HasAnyRole reports whether the snapshot carries at least one of the
// allowed roles.
func (c Claims) HasAnyRole(allowed ...string) bool {
	for _, r := range c.Roles {
		for _, a := range allowed {
			if r == a {
				return true
			}
		}
	}
	return false
}
