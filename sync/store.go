package sync

import (
	"Morris/models/postgres"
	redis_models "Morris/models/redis"
	"Morris/services/game"
	"Morris/services/redis"
	"Morris/services/session"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrUserNotFound = errors.New("user not found")

// Store executes the writes queued by the SyncManager.
type Store interface {
	SaveRoom(ctx context.Context, rec session.RoomRecord) error
	SaveSeat(ctx context.Context, rec session.SeatRecord) error
	UpdateRoomStatus(ctx context.Context, roomID string, status session.RoomStatus, winner game.Symbol, at time.Time) error
	SaveMove(ctx context.Context, rec session.MoveRecord) error
	UpdateUserStats(ctx context.Context, userID string, won bool) error
	MirrorRoom(ctx context.Context, snap session.RoomSnapshot, at time.Time) error
	ForgetRoom(ctx context.Context, roomID string) error
	TrackPresence(ctx context.Context, p session.Presence) error
	ForgetPresence(ctx context.Context, userID string) error
}

// DBStore writes durable records to PostgreSQL and the live mirror to Redis.
// Without a Redis client the mirror writes are skipped.
type DBStore struct {
	db          *gorm.DB
	redisClient *redis.RedisClient
}

var _ Store = (*DBStore)(nil)

func NewDBStore(db *gorm.DB, redisClient *redis.RedisClient) *DBStore {
	return &DBStore{db: db, redisClient: redisClient}
}

// SaveRoom inserts the room, overwriting a stale record that used the same
// code. Seats and moves left by the stale record are dropped with it.
func (s *DBStore) SaveRoom(ctx context.Context, rec session.RoomRecord) error {
	room := postgres.Room{
		RoomID:          rec.RoomID,
		Status:          string(rec.Status),
		CreatedByUserID: rec.CreatedByUserID,
		CreatedAt:       rec.CreatedAt,
	}
	if !rec.StartedAt.IsZero() {
		started := rec.StartedAt
		room.StartedAt = &started
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "room_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "created_by_user_id", "created_at", "started_at", "ended_at", "winner"}),
		}).Create(&room).Error
		if err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", room.RoomID).Delete(&postgres.Player{}).Error; err != nil {
			return err
		}
		return tx.Where("room_id = ?", room.RoomID).Delete(&postgres.GameMove{}).Error
	})
	if err != nil {
		return fmt.Errorf("error saving room %s: %w", rec.RoomID, err)
	}
	return nil
}

func (s *DBStore) SaveSeat(ctx context.Context, rec session.SeatRecord) error {
	player := postgres.Player{
		RoomID:       rec.RoomID,
		UserID:       rec.UserID,
		SocketID:     rec.SocketID,
		PlayerID:     rec.PlayerID,
		PlayerSymbol: string(rec.Symbol),
		JoinedAt:     rec.JoinedAt,
	}
	if err := s.db.WithContext(ctx).Create(&player).Error; err != nil {
		return fmt.Errorf("error saving %s of room %s: %w", rec.PlayerID, rec.RoomID, err)
	}
	return nil
}

// UpdateRoomStatus records a status change. A winner also closes the room;
// the first transition to active stamps its start.
func (s *DBStore) UpdateRoomStatus(ctx context.Context, roomID string, status session.RoomStatus, winner game.Symbol, at time.Time) error {
	updates := map[string]interface{}{"status": string(status)}
	if winner != game.Empty {
		updates["winner"] = string(winner)
		updates["ended_at"] = at
	} else if status == session.StatusActive {
		updates["started_at"] = at
	}

	err := s.db.WithContext(ctx).
		Model(&postgres.Room{}).
		Where("room_id = ?", roomID).
		UpdateColumns(updates).Error
	if err != nil {
		return fmt.Errorf("error updating room %s to %s: %w", roomID, status, err)
	}
	return nil
}

func (s *DBStore) SaveMove(ctx context.Context, rec session.MoveRecord) error {
	board, err := json.Marshal(rec.Board)
	if err != nil {
		return fmt.Errorf("error encoding board of move %d: %w", rec.MoveNumber, err)
	}
	move := postgres.GameMove{
		RoomID:       rec.RoomID,
		MoveNumber:   rec.MoveNumber,
		PlayerSymbol: string(rec.Symbol),
		BoardState:   datatypes.JSON(board),
		GamePhase:    string(rec.Phase),
		Timestamp:    rec.Timestamp,
	}
	if err := s.db.WithContext(ctx).Create(&move).Error; err != nil {
		return fmt.Errorf("error saving move %d of room %s: %w", rec.MoveNumber, rec.RoomID, err)
	}
	return nil
}

func (s *DBStore) UpdateUserStats(ctx context.Context, userID string, won bool) error {
	return IncrementUserStats(s.db.WithContext(ctx), userID, won)
}

// IncrementUserStats adds one finished game to the user's counters.
func IncrementUserStats(db *gorm.DB, userID string, won bool) error {
	result := db.Model(&postgres.User{}).
		Where("user_id = ?", userID).
		UpdateColumns(postgres.StatsIncrement(won))
	if result.Error != nil {
		return fmt.Errorf("error updating stats of user %s: %w", userID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	return nil
}

func (s *DBStore) MirrorRoom(ctx context.Context, snap session.RoomSnapshot, at time.Time) error {
	if s.redisClient == nil {
		return nil
	}
	return s.redisClient.SaveLiveRoom(LiveRoomFromSnapshot(snap, at))
}

func (s *DBStore) ForgetRoom(ctx context.Context, roomID string) error {
	if s.redisClient == nil {
		return nil
	}
	return s.redisClient.DeleteLiveRoom(roomID)
}

func (s *DBStore) TrackPresence(ctx context.Context, p session.Presence) error {
	if s.redisClient == nil {
		return nil
	}
	return s.redisClient.SavePresence(&redis_models.PlayerPresence{
		UserID:   p.UserID,
		Username: p.Username,
		Status:   redis_models.PlayerStatus(p.Status),
		SocketID: p.SocketID,
		RoomID:   p.RoomID,
		LastPing: p.LastSeen.Unix(),
	})
}

func (s *DBStore) ForgetPresence(ctx context.Context, userID string) error {
	if s.redisClient == nil {
		return nil
	}
	return s.redisClient.DeletePresence(userID)
}

// DeleteStaleRooms removes rooms created before cutoff that are no longer
// being played. Their seats and moves go with them.
func (s *DBStore) DeleteStaleRooms(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("created_at < ? AND status <> ?", cutoff, string(session.StatusActive)).
		Delete(&postgres.Room{})
	if result.Error != nil {
		return 0, fmt.Errorf("error deleting stale rooms: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// LiveRoomFromSnapshot converts a room snapshot into its Redis shape.
func LiveRoomFromSnapshot(snap session.RoomSnapshot, at time.Time) *redis_models.LiveRoom {
	players := make([]redis_models.LivePlayer, 0, len(snap.Players))
	for _, p := range snap.Players {
		players = append(players, redis_models.LivePlayer{
			UserID:       p.UserID,
			Username:     p.Username,
			PlayerID:     p.PlayerID,
			PlayerSymbol: p.Symbol,
		})
	}
	return &redis_models.LiveRoom{
		RoomID:        snap.RoomID,
		Status:        string(snap.Status),
		Players:       players,
		Board:         snap.State.Board,
		CurrentPlayer: snap.State.CurrentPlayer,
		GamePhase:     snap.State.GamePhase,
		PiecesPlaced:  snap.State.PiecesPlaced,
		MoveCount:     snap.MoveCount,
		Winner:        snap.Winner,
		UpdatedAt:     at.Unix(),
	}
}
