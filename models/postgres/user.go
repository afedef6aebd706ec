package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*
 * 'User' is a player identity. It is created on the first login through the
 * external identity provider and only its counters change afterwards.
 */
type User struct {
	UserID      string    `gorm:"primaryKey;size:64;not null" json:"user_id"`
	FirebaseUID string    `gorm:"size:128;not null;uniqueIndex" json:"firebase_uid"`
	Email       string    `gorm:"size:100;not null" json:"email"`
	Username    string    `gorm:"size:50;not null" json:"username"`
	PhotoURL    string    `gorm:"size:255" json:"photo_url"`
	CreatedAt   time.Time `json:"created_at"`
	LastLogin   time.Time `json:"last_login"`
	GamesPlayed int       `gorm:"not null" json:"games_played"`
	GamesWon    int       `gorm:"not null" json:"games_won"`
	GamesLost   int       `gorm:"not null" json:"games_lost"`
}

// BeforeCreate assigns a fresh id to users created without one
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == "" {
		u.UserID = uuid.NewString()
	}
	if u.LastLogin.IsZero() {
		u.LastLogin = time.Now()
	}
	return nil
}

// LeaderboardEntry is one row of the public ranking.
type LeaderboardEntry struct {
	UserID      string   `json:"user_id"`
	Username    string   `json:"username"`
	PhotoURL    string   `json:"photo_url"`
	GamesPlayed int      `json:"games_played"`
	GamesWon    int      `json:"games_won"`
	GamesLost   int      `json:"games_lost"`
	WinRate     *float64 `json:"win_rate"`
}

// StatsIncrement returns the column updates recording one more finished game.
func StatsIncrement(won bool) map[string]interface{} {
	updates := map[string]interface{}{
		"games_played": gorm.Expr("games_played + ?", 1),
	}
	if won {
		updates["games_won"] = gorm.Expr("games_won + ?", 1)
	} else {
		updates["games_lost"] = gorm.Expr("games_lost + ?", 1)
	}
	return updates
}
