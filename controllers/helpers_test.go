package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"Morris/middleware"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(pgdriver.New(pgdriver.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

// newRouter returns a router with the session middleware and a route that
// logs in as the given user without touching the database.
func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	middleware.SetUpMiddleware(router, "test-key", []string{"*"})
	router.POST("/test/session/:userId", func(c *gin.Context) {
		_ = middleware.StartSession(c, c.Param("userId"))
		c.Status(http.StatusOK)
	})
	return router
}

func request(router *gin.Engine, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sessionFor(t *testing.T, router *gin.Engine, userID string) []*http.Cookie {
	t.Helper()
	w := request(router, http.MethodPost, "/test/session/"+userID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	return w.Result().Cookies()
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
