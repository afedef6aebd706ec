package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"Morris/services/session"
)

// Settings is the process configuration read from the environment.
type Settings struct {
	Port            string
	Prod            bool
	MigratePostgres bool
	MoveValidation  session.ValidationMode
	SyncQueueSize   int
	RoomRetention   time.Duration
	CleanupInterval time.Duration
	SessionKey      string
	AllowedOrigins  []string
	UseHTTPS        bool
	CertFile        string
	KeyFile         string
}

const (
	defaultPort            = "3001"
	defaultSyncQueueSize   = 256
	defaultRoomRetention   = 24 * time.Hour
	defaultCleanupInterval = time.Hour
)

// Load reads Settings from the environment, applying defaults for unset
// variables. Malformed values are reported rather than silently replaced.
func Load() (Settings, error) {
	s := Settings{
		Port:            getenv("PORT", defaultPort),
		Prod:            os.Getenv("PROD") == "true",
		MigratePostgres: os.Getenv("MIGRATE_POSTGRES") == "true",
		MoveValidation:  session.ValidationMode(strings.ToLower(getenv("MOVE_VALIDATION", string(session.ValidationStrict)))),
		SessionKey:      os.Getenv("SESSION_KEY"),
		UseHTTPS:        os.Getenv("USE_HTTPS") == "true",
		CertFile:        os.Getenv("TLS_CERT_FILE"),
		KeyFile:         os.Getenv("TLS_KEY_FILE"),
	}
	if s.UseHTTPS && (s.CertFile == "" || s.KeyFile == "") {
		return Settings{}, fmt.Errorf("USE_HTTPS requires TLS_CERT_FILE and TLS_KEY_FILE")
	}

	switch s.MoveValidation {
	case session.ValidationStrict, session.ValidationTrust:
	default:
		return Settings{}, fmt.Errorf("MOVE_VALIDATION must be %q or %q, got %q",
			session.ValidationStrict, session.ValidationTrust, s.MoveValidation)
	}

	var err error
	if s.SyncQueueSize, err = intEnv("SYNC_QUEUE_SIZE", defaultSyncQueueSize); err != nil {
		return Settings{}, err
	}
	if s.RoomRetention, err = durationEnv("ROOM_RETENTION", defaultRoomRetention); err != nil {
		return Settings{}, err
	}
	if s.CleanupInterval, err = durationEnv("CLEANUP_INTERVAL", defaultCleanupInterval); err != nil {
		return Settings{}, err
	}

	for _, origin := range strings.Split(getenv("ALLOWED_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			s.AllowedOrigins = append(s.AllowedOrigins, origin)
		}
	}
	return s, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, raw)
	}
	return n, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, raw)
	}
	return d, nil
}
