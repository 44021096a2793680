package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/otcheredev/nurse-call-service/internal/apperr"
	"github.com/otcheredev/nurse-call-service/internal/config"
	"github.com/otcheredev/nurse-call-service/internal/models"
)

const (
	// TokenTypeAccess marks short-lived API tokens
	TokenTypeAccess = "access"
	// TokenTypeRefresh marks long-lived renewal tokens
	TokenTypeRefresh = "refresh"

	tokenIssuer = "nurse-call-service"
)

// TokenService issues and validates JWT access and refresh tokens
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService creates a new token service
func NewTokenService(cfg config.JWTConfig) *TokenService {
	return &TokenService{
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
	}
}

// GeneratePair issues an access and refresh token for a user
func (s *TokenService) GeneratePair(user *models.User) (*models.TokenPair, error) {
	access, err := s.generate(user, TokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.generate(user, TokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &models.TokenPair{Access: access, Refresh: refresh}, nil
}

// GenerateAccess issues a fresh access token for a user
func (s *TokenService) GenerateAccess(user *models.User) (string, error) {
	return s.generate(user, TokenTypeAccess, s.accessTTL)
}

func (s *TokenService) generate(user *models.User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &models.JWTClaims{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   user.ID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperr.Internal(err)
	}
	return signed, nil
}

// Parse validates a token of the expected type and returns its claims
func (s *TokenService) Parse(tokenString, wantType string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.Authentication("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.Authentication("invalid or expired token")
	}
	if claims.TokenType != wantType {
		return nil, apperr.Authentication("wrong token type")
	}
	return claims, nil
}
