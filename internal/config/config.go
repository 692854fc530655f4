package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string
	DBDriver    string
	DatabaseDSN string
	ResetDB     bool
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	SwaggerHost string
	CORSOrigins []string

	LogLevel      string
	LogFormat     string
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int

	Storage StorageConfig

	AdminName     string
	AdminEmail    string
	AdminPassword string
	EmailDomain   string

	LoginRatePerMinute int
	StatsCacheTTL      time.Duration

	Policy Policy
}

// StorageConfig selects where uploaded images and screenshots live.
type StorageConfig struct {
	Backend        string
	UploadDir      string
	MaxUploadBytes int64
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	S3PublicURL    string
}

// Policy toggles behaviors that are deliberately configurable.
type Policy struct {
	// EnforceSuspension rejects API keys whose owner is suspended.
	EnforceSuspension bool
	// LiveRole re-reads name, email and role from the user row on every request
	// instead of trusting the snapshot stored on the key.
	LiveRole bool
	// StrictTransitions makes repeated moderation decisions fail with a conflict.
	StrictTransitions bool
	// ReviewOnEdit returns an approved product to the review queue after a content edit.
	ReviewOnEdit bool
}

// Load builds Config from environment with sensible defaults.
// A .env file in the working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		DBDriver:    getEnv("DB_DRIVER", "mysql"),
		DatabaseDSN: getEnv("DATABASE_DSN", "user:password@tcp(localhost:3306)/uttianguis?charset=utf8mb4&parseTime=True&loc=UTC"),
		ResetDB:     getEnvBool("RESET_DB", false),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		RedisDB:     getEnvInt("REDIS_DB", 0),
		RedisPass:   os.Getenv("REDIS_PASSWORD"),
		SwaggerHost: os.Getenv("SWAGGER_HOST"),
		CORSOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
		LogFile:       os.Getenv("LOG_FILE"),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 50),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),

		Storage: StorageConfig{
			Backend:        getEnv("STORAGE_BACKEND", "local"),
			UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
			MaxUploadBytes: int64(getEnvInt("UPLOAD_MAX_BYTES", 5<<20)),
			S3Bucket:       os.Getenv("S3_BUCKET"),
			S3Region:       getEnv("S3_REGION", "us-east-1"),
			S3Endpoint:     os.Getenv("S3_ENDPOINT"),
			S3AccessKey:    os.Getenv("S3_ACCESS_KEY_ID"),
			S3SecretKey:    os.Getenv("S3_SECRET_ACCESS_KEY"),
			S3PublicURL:    os.Getenv("S3_PUBLIC_URL"),
		},

		AdminName:     getEnv("ADMIN_NAME", "Administrador"),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@uttn.mx"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		EmailDomain:   getEnv("EMAIL_DOMAIN", "uttn.mx"),

		LoginRatePerMinute: getEnvInt("LOGIN_RATE_PER_MINUTE", 10),
		StatsCacheTTL:      getEnvDuration("STATS_CACHE_TTL", time.Minute),

		Policy: Policy{
			EnforceSuspension: getEnvBool("AUTH_ENFORCE_SUSPENSION", false),
			LiveRole:          getEnvBool("AUTH_LIVE_ROLE", false),
			StrictTransitions: getEnvBool("MODERATION_STRICT_TRANSITIONS", true),
			ReviewOnEdit:      getEnvBool("MODERATION_REVIEW_ON_EDIT", false),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
