package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage modes.
const (
	StorageModeRemote = "remote"
	StorageModeLocal  = "local"
)

// Local key-value backends.
const (
	KVBackendMemory = "memory"
	KVBackendRedis  = "redis"
)

type Config struct {
	App      AppConfig
	Auth     AuthConfig
	Database DatabaseConfig
	Storage  StorageConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	LiveLogFilePath    string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

// AuthConfig holds the key shared with the token issuer.
type AuthConfig struct {
	JwtSecret string
}

type DatabaseConfig struct {
	Connection string
}

type StorageConfig struct {
	Mode            string // "remote" (postgres) or "local" (key-value)
	LocalKVBackend  string // "memory" or "redis"
	ObjectStoreRoot string
	UploadMaxBytes  int64
	DeleteWindow    time.Duration
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Validate reports settings the server cannot run without.
func (c *Config) Validate() error {
	if c.Auth.JwtSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	return nil
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			LiveLogFilePath:    getEnv("LIVE_LOG_FILE_PATH", "live.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Auth: AuthConfig{
			JwtSecret: getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Storage: StorageConfig{
			Mode:            getEnv("STORAGE_MODE", StorageModeRemote),
			LocalKVBackend:  getEnv("LOCAL_KV_BACKEND", KVBackendMemory),
			ObjectStoreRoot: getEnv("OBJECT_STORE_ROOT", "./uploads"),
			UploadMaxBytes:  int64(getEnvAsInt("UPLOAD_MAX_BYTES", 10*1024*1024)),
			DeleteWindow:    time.Duration(getEnvAsInt("OBJECT_DELETE_WINDOW_MS", 50)) * time.Millisecond,
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
