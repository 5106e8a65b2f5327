package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the service.
type Config struct {
	Port string
	Env  string

	DatabaseDSN string
	RedisAddr   string
	RedisDB     int

	JWTSecret string

	// MediaDir is where uploaded blobs are stored on disk.
	MediaDir string
	// MediaBaseURL is the public prefix under which blobs are served.
	MediaBaseURL string

	// RoomTTL is the rolling inactivity window after which a room closes.
	RoomTTL time.Duration
	// MessageTTL is the countdown started when a message is read.
	MessageTTL time.Duration
	// SweepInterval is how often the server-side sweeper runs.
	SweepInterval time.Duration
}

// Load reads configuration from the environment, falling back to development
// defaults. A .env file is honored when present.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:          getenv("APP_PORT", "8080"),
		Env:           getenv("APP_ENV", "dev"),
		DatabaseDSN:   getenv("DATABASE_DSN", "host=localhost user=six password=six dbname=sixdb port=5432 sslmode=disable"),
		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisDB:       getint("REDIS_DB", 0),
		JWTSecret:     getenv("JWT_SECRET", "dev-secret-change-me"),
		MediaDir:      getenv("MEDIA_DIR", "./data/media"),
		MediaBaseURL:  getenv("MEDIA_BASE_URL", "/media"),
		RoomTTL:       getdur("ROOM_TTL", 6*time.Hour),
		MessageTTL:    getdur("MESSAGE_TTL", 6*time.Minute),
		SweepInterval: getdur("SWEEP_INTERVAL", time.Minute),
	}
}

// IsDev reports whether the service runs in development mode.
func (c Config) IsDev() bool { return c.Env == "dev" }

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getdur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
