package utils

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
)

var (
	ErrUsernameTooShort = errors.New("Username must be at least 3 characters long")
	ErrUsernameTooLong  = errors.New("Username must be at most 50 characters long")
)

// ErrorHandler answers with the last error attached to the context when the
// handler did not write a response itself
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last()
		log.Printf("[HTTP-ERROR] %s %s: %v", c.Request.Method, c.Request.URL.Path, err.Err)
		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
	}
}

// NormalizeUsername trims the name and checks its length
func NormalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	n := utf8.RuneCountInString(username)
	if n < MinUsernameLength {
		return "", ErrUsernameTooShort
	}
	if n > MaxUsernameLength {
		return "", ErrUsernameTooLong
	}
	return username, nil
}

// AvatarURL returns the generated avatar used for users without a photo
func AvatarURL(seed string) string {
	return "https://api.dicebear.com/9.x/notionists/svg?seed=" + url.QueryEscape(seed)
}
