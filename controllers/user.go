package controllers

import (
	"Morris/middleware"
	models "Morris/models/postgres"
	"Morris/sync"
	"Morris/utils"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type LoginRequest struct {
	FirebaseUID string `json:"firebaseUid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
}

type UserProfile struct {
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	PhotoURL    string `json:"photoUrl"`
	GamesPlayed int    `json:"gamesPlayed"`
	GamesWon    int    `json:"gamesWon"`
	GamesLost   int    `json:"gamesLost"`
	NeedsSetup  bool   `json:"needsSetup"`
}

func profileOf(u models.User) UserProfile {
	return UserProfile{
		UserID:      u.UserID,
		Email:       u.Email,
		Username:    u.Username,
		PhotoURL:    u.PhotoURL,
		GamesPlayed: u.GamesPlayed,
		GamesWon:    u.GamesWon,
		GamesLost:   u.GamesLost,
	}
}

// @Summary Log in with an identity verified by the external provider
// @Description Creates the user on its first login and opens a session
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Identity"
// @Success 200 {object} UserProfile
// @Failure 400 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /api/auth/login [post]
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil ||
			strings.TrimSpace(req.FirebaseUID) == "" || strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.DisplayName) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
			return
		}

		now := time.Now()
		created := false
		var user models.User
		err := db.Where("firebase_uid = ?", req.FirebaseUID).First(&user).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			user = models.User{
				FirebaseUID: req.FirebaseUID,
				Email:       req.Email,
				Username:    req.DisplayName,
				PhotoURL:    req.PhotoURL,
				CreatedAt:   now,
				LastLogin:   now,
			}
			if err := db.Create(&user).Error; err != nil {
				log.Printf("[AUTH-ERROR] Error creating user %s: %v", req.Email, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "User creation failed"})
				return
			}
			created = true
			log.Printf("[AUTH] New user created: %s (%s)", req.Email, user.UserID)
		case err != nil:
			log.Printf("[AUTH-ERROR] Database error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		default:
			updates := map[string]interface{}{"last_login": now}
			if req.PhotoURL != "" {
				updates["photo_url"] = req.PhotoURL
				user.PhotoURL = req.PhotoURL
			}
			if err := db.Model(&user).UpdateColumns(updates).Error; err != nil {
				log.Printf("[AUTH-ERROR] Error updating user %s: %v", user.UserID, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed"})
				return
			}
		}

		if err := middleware.StartSession(c, user.UserID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No session!"})
			return
		}
		profile := profileOf(user)
		profile.NeedsSetup = created
		c.JSON(http.StatusOK, profile)
	}
}

// Logout from server, deletes the session associated with the user key
func Logout(c *gin.Context) {
	ended, err := middleware.EndSession(c)
	// There is no session for the user, won't delete nothing
	if !ended {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session token"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

// @Summary Profile of the logged in user
// @Tags auth
// @Produce json
// @Success 200 {object} UserProfile
// @Failure 401 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /api/auth/me [get]
func Me(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.CurrentUserID(c)
		findUser(c, db, "user_id = ?", userID)
	}
}

// @Summary Public profile of a user
// @Tags users
// @Produce json
// @Param firebaseUid path string true "Identity provider uid"
// @Success 200 {object} UserProfile
// @Failure 404 {object} object{error=string}
// @Router /api/users/{firebaseUid} [get]
func GetUserByFirebaseUID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		findUser(c, db, "firebase_uid = ?", c.Param("firebaseUid"))
	}
}

func findUser(c *gin.Context, db *gorm.DB, query string, arg string) {
	var user models.User
	if err := db.Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		log.Printf("[USER-ERROR] Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, profileOf(user))
}

// @Summary Change a username
// @Tags users
// @Accept json
// @Produce json
// @Param userId path string true "User id"
// @Param request body object{username=string} true "New username"
// @Success 200 {object} object{success=bool,username=string}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /api/users/{userId}/username [put]
func UpdateUsername(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Username string `json:"username"`
		}
		_ = c.ShouldBindJSON(&req)
		username, err := utils.NormalizeUsername(req.Username)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		userID := c.Param("userId")
		result := db.Model(&models.User{}).Where("user_id = ?", userID).UpdateColumn("username", username)
		if result.Error != nil {
			log.Printf("[USER-ERROR] Error updating username of %s: %v", userID, result.Error)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "username": username})
	}
}

// SetupUser completes the profile of a new user: a username and a generated avatar.
func SetupUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			UserID   string `json:"userId"`
			Username string `json:"username"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" || req.Username == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing userId or username"})
			return
		}
		username, err := utils.NormalizeUsername(req.Username)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result := db.Model(&models.User{}).Where("user_id = ?", req.UserID).UpdateColumns(map[string]interface{}{
			"username":  username,
			"photo_url": utils.AvatarURL(username),
		})
		if result.Error != nil {
			log.Printf("[USER-ERROR] Error during setup of %s: %v", req.UserID, result.Error)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Setup failed"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		var user models.User
		if err := db.Where("user_id = ?", req.UserID).First(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user profile"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "user": profileOf(user)})
	}
}

// @Summary Record a won game
// @Tags stats
// @Accept json
// @Produce json
// @Param request body object{userId=string} true "User id"
// @Success 200 {object} object{success=bool,message=string}
// @Router /api/update_win [post]
func UpdateWin(db *gorm.DB) gin.HandlerFunc {
	return updateStats(db, true)
}

// @Summary Record a lost game
// @Tags stats
// @Accept json
// @Produce json
// @Param request body object{userId=string} true "User id"
// @Success 200 {object} object{success=bool,message=string}
// @Router /api/update_lost [post]
func UpdateLost(db *gorm.DB) gin.HandlerFunc {
	return updateStats(db, false)
}

func updateStats(db *gorm.DB, won bool) gin.HandlerFunc {
	outcome := "Lost"
	if won {
		outcome = "Win"
	}
	return func(c *gin.Context) {
		var req struct {
			UserID string `json:"userId"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
			return
		}

		if err := sync.IncrementUserStats(db, req.UserID, won); err != nil {
			if errors.Is(err, sync.ErrUserNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			log.Printf("[STATS-ERROR] %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update stats"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": outcome + " stats updated"})
	}
}

// LeaderboardSize caps the ranking
const LeaderboardSize = 100

// @Summary Ranking of the players with at least one finished game
// @Tags stats
// @Produce json
// @Success 200 {array} models.LeaderboardEntry
// @Router /api/leaderboard [get]
func Leaderboard(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries := []models.LeaderboardEntry{}
		err := db.Model(&models.User{}).
			Select("user_id, username, photo_url, games_played, games_won, games_lost, " +
				"ROUND(CAST(games_won AS NUMERIC) / NULLIF(games_played, 0) * 100, 1) AS win_rate").
			Where("games_played > ?", 0).
			Order("games_won DESC, win_rate DESC").
			Limit(LeaderboardSize).
			Scan(&entries).Error
		if err != nil {
			log.Printf("[STATS-ERROR] Error fetching leaderboard: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}
