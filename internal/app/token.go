package app

import (
	"time"

	"github.com/adanyl0v/tasklist/internal/config"
	"github.com/adanyl0v/tasklist/internal/services"
)

func MustIssueToken(subject string) (string, time.Time) {
	cfg := config.Global().Token
	tokens := services.NewTokenService(globalLogger, cfg.Issuer, cfg.SigningKey, cfg.TTL)

	token, expiresAt, err := tokens.IssueToken(subject)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to issue token")
		panic(err)
	}
	return token, expiresAt
}
