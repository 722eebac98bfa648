package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims wraps a server-side session: ID (jti) is the session token and
// Subject is the account id.
type Claims struct {
	jwt.RegisteredClaims
}

type TokenSigner struct {
	key []byte
	ttl time.Duration
}

func NewTokenSigner(secret string, ttl time.Duration) *TokenSigner {
	return &TokenSigner{key: []byte(secret), ttl: ttl}
}

func (s *TokenSigner) CreateToken(sessionToken, userID string) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionToken,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.key)
}

func (s *TokenSigner) ValidateToken(tokenString string) (*Claims, error) {
	return s.parse(tokenString)
}

// SessionID extracts the jti of a correctly signed token even when it has
// expired, so that logout can always remove the row.
func (s *TokenSigner) SessionID(tokenString string) (string, error) {
	claims, err := s.parse(tokenString, jwt.WithoutClaimsValidation())
	if err != nil {
		return "", err
	}
	return claims.ID, nil
}

func (s *TokenSigner) parse(tokenString string, opts ...jwt.ParserOption) (*Claims, error) {
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.key, nil
	}, opts...)

	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.ID == "" || claims.Subject == "" {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
