package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"Morris/middleware"
	"Morris/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{"user_id", "firebase_uid", "email", "username", "photo_url",
	"created_at", "last_login", "games_played", "games_won", "games_lost"}

func userRow(rows *sqlmock.Rows) *sqlmock.Rows {
	joined := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return rows.AddRow("U1", "fb-1", "alice@example.com", "Alice", "https://img/alice.png",
		joined, joined, 4, 3, 1)
}

func TestLogin(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		db, mock := newMockDB(t)
		router := newRouter()
		router.POST("/api/auth/login", Login(db))

		w := request(router, http.MethodPost, "/api/auth/login", LoginRequest{FirebaseUID: "fb-1", Email: "  "})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("first login creates the user", func(t *testing.T) {
		db, mock := newMockDB(t)
		router := newRouter()
		router.POST("/api/auth/login", Login(db))

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE firebase_uid = \$1`).
			WillReturnRows(sqlmock.NewRows(userColumns))
		mock.ExpectExec(`INSERT INTO "users"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		w := request(router, http.MethodPost, "/api/auth/login", LoginRequest{
			FirebaseUID: "fb-2", Email: "bob@example.com", DisplayName: "Bob", PhotoURL: "https://img/bob.png",
		})
		require.Equal(t, http.StatusOK, w.Code)

		body := decode(t, w)
		assert.NotEmpty(t, body["userId"])
		assert.Equal(t, "Bob", body["username"])
		assert.Equal(t, "https://img/bob.png", body["photoUrl"])
		assert.Equal(t, float64(0), body["gamesPlayed"])
		assert.Equal(t, true, body["needsSetup"])
		assert.NotEmpty(t, w.Result().Cookies())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returning user refreshes last login", func(t *testing.T) {
		db, mock := newMockDB(t)
		router := newRouter()
		router.POST("/api/auth/login", Login(db))

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE firebase_uid = \$1`).
			WillReturnRows(userRow(sqlmock.NewRows(userColumns)))
		mock.ExpectExec(`UPDATE "users" SET "last_login"=\$1,"photo_url"=\$2 WHERE`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		w := request(router, http.MethodPost, "/api/auth/login", LoginRequest{
			FirebaseUID: "fb-1", Email: "alice@example.com", DisplayName: "Alice", PhotoURL: "https://img/new.png",
		})
		require.Equal(t, http.StatusOK, w.Code)

		body := decode(t, w)
		assert.Equal(t, "U1", body["userId"])
		assert.Equal(t, "https://img/new.png", body["photoUrl"])
		assert.Equal(t, float64(3), body["gamesWon"])
		assert.Equal(t, false, body["needsSetup"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database failure", func(t *testing.T) {
		db, mock := newMockDB(t)
		router := newRouter()
		router.POST("/api/auth/login", Login(db))

		mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnError(errors.New("connection reset"))

		w := request(router, http.MethodPost, "/api/auth/login", LoginRequest{
			FirebaseUID: "fb-1", Email: "alice@example.com", DisplayName: "Alice",
		})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMeAndLogout(t *testing.T) {
	db, mock := newMockDB(t)
	router := newRouter()
	auth := router.Group("/api/auth")
	auth.Use(middleware.AuthRequired)
	auth.GET("/me", Me(db))
	auth.DELETE("/logout", Logout)

	w := request(router, http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	cookies := sessionFor(t, router, "U1")
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE user_id = \$1`).
		WillReturnRows(userRow(sqlmock.NewRows(userColumns)))

	w = request(router, http.MethodGet, "/api/auth/me", nil, cookies...)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Alice", decode(t, w)["username"])

	w = request(router, http.MethodDelete, "/api/auth/logout", nil, cookies...)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByFirebaseUID(t *testing.T) {
	db, mock := newMockDB(t)
	router := newRouter()
	router.GET("/api/users/:firebaseUid", GetUserByFirebaseUID(db))

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE firebase_uid = \$1`).
		WillReturnRows(userRow(sqlmock.NewRows(userColumns)))
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE firebase_uid = \$1`).
		WillReturnRows(sqlmock.NewRows(userColumns))

	w := request(router, http.MethodGet, "/api/users/fb-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "U1", body["userId"])
	assert.Equal(t, float64(4), body["gamesPlayed"])

	w = request(router, http.MethodGet, "/api/users/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUsername(t *testing.T) {
	db, mock := newMockDB(t)
	router := newRouter()
	router.PUT("/api/users/:userId/username", UpdateUsername(db))

	w := request(router, http.MethodPut, "/api/users/U1/username", map[string]string{"username": "al"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	mock.ExpectExec(`UPDATE "users" SET "username"=\$1 WHERE user_id = \$2`).
		WithArgs("alice_2", "U1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	w = request(router, http.MethodPut, "/api/users/U1/username", map[string]string{"username": " alice_2 "})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"username":"alice_2"}`, w.Body.String())

	mock.ExpectExec(`UPDATE "users" SET "username"=\$1 WHERE user_id = \$2`).
		WithArgs("ghost", "U9").
		WillReturnResult(sqlmock.NewResult(0, 0))
	w = request(router, http.MethodPut, "/api/users/U9/username", map[string]string{"username": "ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetupUser(t *testing.T) {
	db, mock := newMockDB(t)
	router := newRouter()
	router.POST("/api/user/setup", SetupUser(db))

	w := request(router, http.MethodPost, "/api/user/setup", map[string]string{"userId": "U1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	mock.ExpectExec(`UPDATE "users" SET "photo_url"=\$1,"username"=\$2 WHERE user_id = \$3`).
		WithArgs(utils.AvatarURL("Alice"), "Alice", "U1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE user_id = \$1`).
		WillReturnRows(userRow(sqlmock.NewRows(userColumns)))

	w = request(router, http.MethodPost, "/api/user/setup", map[string]string{"userId": "U1", "username": "Alice"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Alice", body["user"].(map[string]interface{})["username"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateWinAndLost(t *testing.T) {
	db, mock := newMockDB(t)
	router := newRouter()
	router.POST("/api/update_win", UpdateWin(db))
	router.POST("/api/update_lost", UpdateLost(db))

	w := request(router, http.MethodPost, "/api/update_win", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	mock.ExpectExec(`UPDATE "users" SET "games_played"=games_played \+ \$1,"games_won"=games_won \+ \$2 WHERE user_id = \$3`).
		WithArgs(1, 1, "U1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	w = request(router, http.MethodPost, "/api/update_win", map[string]string{"userId": "U1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Win stats updated"}`, w.Body.String())

	mock.ExpectExec(`UPDATE "users" SET "games_lost"=games_lost \+ \$1,"games_played"=games_played \+ \$2 WHERE user_id = \$3`).
		WithArgs(1, 1, "U2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	w = request(router, http.MethodPost, "/api/update_lost", map[string]string{"userId": "U2"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Lost stats updated"}`, w.Body.String())

	mock.ExpectExec(`UPDATE "users" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	w = request(router, http.MethodPost, "/api/update_lost", map[string]string{"userId": "U9"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaderboard(t *testing.T) {
	db, mock := newMockDB(t)
	router := newRouter()
	router.GET("/api/leaderboard", Leaderboard(db))

	mock.ExpectQuery(`SELECT user_id, username, photo_url, games_played, games_won, games_lost, ROUND\(.*\) AS win_rate FROM "users" WHERE games_played > \$1 ORDER BY games_won DESC, win_rate DESC LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "username", "photo_url", "games_played", "games_won", "games_lost", "win_rate"}).
			AddRow("U1", "Alice", "", 4, 3, 1, 75.0).
			AddRow("U2", "Bob", "", 3, 1, 2, 33.3))

	w := request(router, http.MethodGet, "/api/leaderboard", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var entries []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "Alice", entries[0]["username"])
	assert.Equal(t, 75.0, entries[0]["win_rate"])
	assert.Equal(t, 33.3, entries[1]["win_rate"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
