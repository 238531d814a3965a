// Package auth holds the stateless credential primitives of the server:
// signed session tokens and password hashing.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/together/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of a session token. The subject is the account id.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenService issues and validates HS256 session tokens. It is constructed
// once at process start with the signing key and held for the process
// lifetime; there is no server-side revocation.
type TokenService struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

// NewTokenService returns a TokenService signing with secret and issuing
// tokens valid for validity.
func NewTokenService(secret []byte, validity time.Duration) *TokenService {
	return &TokenService{secret: secret, validity: validity, now: time.Now}
}

// Issue builds and signs a token for subject.
func (s *TokenService) Issue(subject string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.validity)),
		},
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tokenString, nil
}

// Parse verifies the signature and expiry of tokenString and returns its
// claims. A token that is malformed or whose signature does not verify yields
// common.ErrInvalidToken; a correctly signed but expired token yields
// common.ErrTokenExpired.
func (s *TokenService) Parse(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, common.ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) && !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}
	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// Validate reports whether tokenString carries a valid signature and has not
// expired. It never fails loudly.
func (s *TokenService) Validate(tokenString string) bool {
	_, err := s.Parse(tokenString)
	return err == nil
}

// SubjectOf returns the subject of a verified, unexpired token.
func (s *TokenService) SubjectOf(tokenString string) (string, error) {
	claims, err := s.Parse(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
