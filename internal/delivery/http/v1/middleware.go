package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	subjectCtxKey    = "subject"
	accessTokenQuery = "access_token"
)

func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	if h.tokens == nil {
		c.Next()
		return
	}

	accessToken, ok := bearerToken(c)
	if !ok {
		h.logger.Error().Msg("authorization header required")
		abort(c, newUnauthorizedError(http.StatusText(http.StatusUnauthorized)))
		return
	}

	claims, err := h.tokens.ParseToken(accessToken)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to parse token")
		abort(c, newUnauthorizedError(http.StatusText(http.StatusUnauthorized)))
		return
	}

	c.Set(subjectCtxKey, claims.Subject)
	c.Next()
}

// bearerToken reads the token from the Authorization header. Event
// streams opened by browsers cannot set headers, so the access_token
// query parameter is accepted as well.
func bearerToken(c *gin.Context) (string, bool) {
	const authHeader = "Authorization"
	header := c.GetHeader(authHeader)
	if header == "" {
		token := c.Query(accessTokenQuery)
		return token, token != ""
	}

	const bearerPrefix = "Bearer"
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != bearerPrefix || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
