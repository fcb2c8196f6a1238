package logics

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService issues and verifies the mobile API access tokens handed out
// after a completed login.
type TokenService struct {
	secret       []byte
	accessExpire time.Duration
}

// NewTokenService creates a new TokenService.
func NewTokenService(secret string, accessExpire time.Duration) *TokenService {
	if accessExpire <= 0 {
		accessExpire = time.Hour
	}
	return &TokenService{secret: []byte(secret), accessExpire: accessExpire}
}

// GenerateAccessToken issues an HS256 token with the user id as subject.
func (s *TokenService) GenerateAccessToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(s.accessExpire).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ParseAccessToken verifies a token and returns its subject user id.
func (s *TokenService) ParseAccessToken(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("sub claim not found in token")
	}
	return sub, nil
}
