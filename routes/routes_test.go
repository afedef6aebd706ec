package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	_ "Morris/config/swagger"
	"Morris/middleware"
	"Morris/services/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSetupRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	middleware.SetUpMiddleware(router, "test-key", []string{"*"})
	SetupRoutes(router, nil, nil, session.NewCoordinator(nil))

	registered := make(map[string]bool)
	for _, r := range router.Routes() {
		registered[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"GET /ping", "GET /health", "GET /rooms", "GET /stats",
		"GET /room/:roomId/history", "GET /room/:roomId/live",
		"POST /api/auth/login", "DELETE /api/auth/logout", "GET /api/auth/me",
		"GET /api/users/:firebaseUid", "PUT /api/users/:userId/username",
		"POST /api/user/setup", "POST /api/update_win", "POST /api/update_lost",
		"GET /api/leaderboard", "GET /swagger/*any",
	} {
		assert.True(t, registered[want], want)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/room/AB12CD/live", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/leaderboard")
}
