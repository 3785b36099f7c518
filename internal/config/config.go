package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBDriver   string
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	SQLitePath string
	DBDebug    bool

	RedisURL string

	JWTSecret     string
	AdminEmail    string
	AdminPassword string

	BoltClientID     string
	BoltClientSecret string
	BoltTokenURL     string
	BoltBaseURL      string
	BoltTimeout      time.Duration

	ExpiryCheckInterval time.Duration

	AWSRegion    string
	AWSAccessKey string
	AWSSecretKey string
	AWSBucket    string
	UploadDir    string
	BaseURL      string

	FirebaseServiceAccountPath string

	TelegramBotToken string
	TelegramChatID   int64
}

// Load reads .env when present, then the environment, falling back to
// defaults suitable for local development.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	return Config{
		Port: getEnv("PORT", "8080"),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "tvdefleet"),
		DBPort:     getEnv("DB_PORT", "5432"),
		SQLitePath: getEnv("SQLITE_PATH", "tvdefleet.db"),
		DBDebug:    getBool("DB_DEBUG", false),

		RedisURL: os.Getenv("REDIS_URL"),

		JWTSecret:     getEnv("JWT_SECRET", "change-me"),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@tvdefleet.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin"),

		BoltClientID:     os.Getenv("BOLT_CLIENT_ID"),
		BoltClientSecret: os.Getenv("BOLT_CLIENT_SECRET"),
		BoltTokenURL:     getEnv("BOLT_TOKEN_URL", "https://oidc.bolt.eu/token"),
		BoltBaseURL:      getEnv("BOLT_API_BASE_URL", "https://api.bolt.eu/fleet-integration/v1"),
		BoltTimeout:      getDuration("BOLT_TIMEOUT", 30*time.Second),

		ExpiryCheckInterval: getDuration("EXPIRY_CHECK_INTERVAL", time.Hour),

		AWSRegion:    os.Getenv("AWS_REGION"),
		AWSAccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		AWSBucket:    os.Getenv("AWS_BUCKET_NAME"),
		UploadDir:    getEnv("UPLOAD_DIR", "./uploads"),
		BaseURL:      getEnv("BASE_URL", "http://localhost:8080"),

		FirebaseServiceAccountPath: os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"),

		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   getInt64("TELEGRAM_CHAT_ID", 0),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %s", key, v)
			return def
		}
		return d
	}
	return def
}

func getInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			log.Printf("invalid integer for %s: %s", key, v)
			return def
		}
		return n
	}
	return def
}

// getBool reads an env var as bool with default.
func getBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %s", key, v)
			return def
		}
		return b
	}
	return def
}
