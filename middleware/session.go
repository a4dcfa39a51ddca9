package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionContextKey = "sessionID"

	DefaultSessionCookie = "sportsstore_session"
	sessionMaxAge        = 30 * 24 * time.Hour
)

// Session binds every request to a session id kept in cookieName. A missing
// or malformed cookie is replaced with a fresh id.
func Session(cookieName string) gin.HandlerFunc {
	if cookieName == "" {
		cookieName = DefaultSessionCookie
	}
	return func(c *gin.Context) {
		id, err := c.Cookie(cookieName)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
		}
		// refresh on every request so active carts do not expire
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookieName, id, int(sessionMaxAge.Seconds()), "/", "", false, true)
		c.Set(SessionContextKey, id)
		c.Next()
	}
}

func GetSessionID(c *gin.Context) (string, error) {
	if val, ok := c.Get(SessionContextKey); ok {
		if id, ok := val.(string); ok && id != "" {
			return id, nil
		}
	}
	return "", errors.New("session ID not found in context")
}
