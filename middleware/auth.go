package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// userkey is the session entry holding the logged in user id
const userkey = "user_id"

// AuthRequired is a simple middleware to check the session.
func AuthRequired(c *gin.Context) {
	if _, ok := CurrentUserID(c); !ok {
		// Abort the request with the appropriate error code
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	// Continue down the chain to handler etc
	c.Next()
}

// CurrentUserID returns the user stored in the session, if any
func CurrentUserID(c *gin.Context) (string, bool) {
	user, ok := sessions.Default(c).Get(userkey).(string)
	return user, ok && user != ""
}

// StartSession binds the session to userID
func StartSession(c *gin.Context, userID string) error {
	session := sessions.Default(c)
	session.Set(userkey, userID)
	return session.Save()
}

// EndSession deletes the user binding, reporting false when there was none
func EndSession(c *gin.Context) (bool, error) {
	session := sessions.Default(c)
	if session.Get(userkey) == nil {
		return false, nil
	}
	session.Delete(userkey)
	return true, session.Save()
}
