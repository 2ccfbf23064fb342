// Package token mints and verifies the signed, time-limited tokens used for
// authentication sessions. Access and refresh tokens are signed with distinct
// secrets so they are never interchangeable.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	issuer   = "moodmate-api"
	audience = "moodmate-client"
)

// Verification failures collapse to a closed pair so the error mapper can
// distinguish an elapsed expiry from every other defect.
var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Claims is the payload embedded in every signed token.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Service issues and verifies access and refresh tokens. It is pure and
// stateless; secrets and expiries are read-only configuration.
type Service struct {
	accessSecret  []byte
	refreshSecret []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewService returns a token Service signing with the given secrets and expiries.
func NewService(accessSecret, refreshSecret string, accessExpiry, refreshExpiry time.Duration) *Service {
	return &Service{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// IssueAccessToken signs a short-lived token carrying the user identity claim.
func (s *Service) IssueAccessToken(userID, email string) (string, error) {
	return s.issue(userID, email, s.accessSecret, s.accessExpiry)
}

// IssueRefreshToken signs a long-lived token with the distinct refresh secret.
func (s *Service) IssueRefreshToken(userID, email string) (string, error) {
	return s.issue(userID, email, s.refreshSecret, s.refreshExpiry)
}

func (s *Service) issue(userID, email string, secret []byte, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(secret)
}

// VerifyAccessToken validates signature and expiry against the access secret.
func (s *Service) VerifyAccessToken(tokenString string) (*Claims, error) {
	return verify(tokenString, s.accessSecret)
}

// VerifyRefreshToken validates signature and expiry against the refresh secret.
func (s *Service) VerifyRefreshToken(tokenString string) (*Claims, error) {
	return verify(tokenString, s.refreshSecret)
}

// verify is all-or-nothing: any signature, secret, structure, issuer,
// audience, or lifetime defect rejects the whole token.
func verify(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}

	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !tok.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
