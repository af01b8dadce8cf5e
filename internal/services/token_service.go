package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type tokenServiceImpl struct {
	logger     zerolog.Logger
	issuer     string
	signingKey []byte
	ttl        time.Duration
}

func NewTokenService(
	logger zerolog.Logger,
	issuer string,
	signingKey string,
	ttl time.Duration,
) TokenService {
	return &tokenServiceImpl{
		logger:     logger,
		issuer:     issuer,
		signingKey: []byte(signingKey),
		ttl:        ttl,
	}
}

func (s *tokenServiceImpl) IssueToken(subject string) (string, time.Time, error) {
	if len(s.signingKey) == 0 {
		return "", time.Time{}, ErrTokenUnavailable
	}

	tokenUUID, err := uuid.NewRandom()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate token id")
		return "", time.Time{}, fmt.Errorf("failed to generate id: %w", err)
	}

	now := time.Now()
	expiresAt := now.Add(s.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        tokenUUID.String(),
		Issuer:    s.issuer,
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
	})

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to sign token")
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Info().
		Str("subject", subject).
		Time("expires_at", expiresAt).
		Msg("issued token")
	return signed, expiresAt, nil
}

func (s *tokenServiceImpl) ParseToken(token string) (*jwt.RegisteredClaims, error) {
	if len(s.signingKey) == 0 {
		return nil, ErrTokenUnavailable
	}

	t, err := jwt.ParseWithClaims(
		token,
		&jwt.RegisteredClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		jwt.WithIssuer(s.issuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("token is expired: %w", err)
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := t.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return nil, fmt.Errorf("failed to parse token claims")
	}
	return claims, nil
}
