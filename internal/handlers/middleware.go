package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	operatorCtxKey = "operator"
	bearerScheme   = "Bearer"
)

var (
	errMissingAuth   = errors.New("missing Authorization header")
	errBadAuthFormat = errors.New("invalid Authorization header format")
)

const errBadToken = "invalid or expired token"

// bearerToken returns the token of a "Bearer <token>" header.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingAuth
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || scheme != bearerScheme || token == "" {
		return "", errBadAuthFormat
	}
	return token, nil
}

// operatorMiddleware admits requests carrying a valid operator JWT and stores
// its subject under operatorCtxKey.
func (h *Handler) operatorMiddleware(c *gin.Context) {
	token, err := bearerToken(c.GetHeader("Authorization"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	subject, err := h.services.ParseToken(token)
	if err != nil {
		if h.log != nil {
			h.log.Infow("auth_token_rejected", "path", c.FullPath(), "err", err)
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errBadToken})
		return
	}

	c.Set(operatorCtxKey, subject)
	c.Next()
}

// accessLog writes one line per request once the handler chain is done,
// so it sees the final status and the operator set by operatorMiddleware.
func (h *Handler) accessLog(c *gin.Context) {
	start := time.Now()
	c.Next()
	if h.log == nil {
		return
	}
	h.log.Infow("http_request",
		"method", c.Request.Method,
		"route", c.FullPath(),
		"status", c.Writer.Status(),
		"operator", c.GetString(operatorCtxKey),
		"duration", time.Since(start),
	)
}
