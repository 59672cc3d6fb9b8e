package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"reservation-engine/internal/handler/httperr"
	"reservation-engine/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// SessionHeader carries the signed checkout session token.
const SessionHeader = "X-Checkout-Session"

const ctxSessionKey = "checkout_session"

type SessionValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

type SessionMiddleware struct {
	validator SessionValidator
}

func NewSessionMiddleware(validator SessionValidator) *SessionMiddleware {
	return &SessionMiddleware{validator: validator}
}

// RequireSession rejects requests without a valid checkout session token.
// The header also accepts the "Bearer " prefix.
func (m *SessionMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(strings.TrimPrefix(c.GetHeader(SessionHeader), "Bearer "))
		if token == "" {
			httperr.AbortWithCode(c, http.StatusUnauthorized, httperr.CodeSessionRequired, jwt.ErrInvalidToken, "Checkout session required", nil)
			return
		}

		claims, err := m.validator.ValidateToken(token)
		if err != nil {
			slog.Warn("checkout session rejected", "error", err.Error())
			httperr.AbortWithCode(c, http.StatusUnauthorized, httperr.CodeSessionRequired, err, "Invalid or expired checkout session", nil)
			return
		}

		c.Set(ctxSessionKey, claims)
		c.Next()
	}
}

func GetSession(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(ctxSessionKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	return claims, ok
}
