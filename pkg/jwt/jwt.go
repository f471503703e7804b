package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Service interface {
	GenerateToken(playerID, username string, ttl time.Duration) (string, error)
	ValidateToken(tokenString string) (*PlayerClaims, error)
}

type service struct {
	secret     []byte
	issuer     string
	defaultTTL time.Duration
	now        func() time.Time
}

// NewService returns an HS256 token service. An empty issuer disables the issuer check.
func NewService(secret, issuer string, defaultTTL time.Duration) Service {
	return &service{
		secret:     []byte(secret),
		issuer:     issuer,
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

func (s *service) GenerateToken(playerID, username string, ttl time.Duration) (string, error) {
	if _, err := uuid.Parse(playerID); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSubject, err)
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	now := s.now()
	claims := &PlayerClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   playerID,
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Username: username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

func (s *service) ValidateToken(tokenString string) (*PlayerClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &PlayerClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return s.secret, nil
	}, opts...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrInvalidSignature
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*PlayerClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, ErrInvalidSubject
	}

	return claims, nil
}
