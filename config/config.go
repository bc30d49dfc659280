package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Firebase FirebaseConfig
	Mux      MuxConfig
	Cohere   CohereConfig
	Storage  StorageConfig
	Chat     ChatConfig
	App      AppConfig
}

type ServerConfig struct {
	Port            string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	DSN      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type FirebaseConfig struct {
	CredentialsPath string
}

// MuxConfig holds the video platform credentials. The signing key is optional;
// without it playback URLs are returned unsigned.
type MuxConfig struct {
	BaseURL       string
	TokenID       string
	TokenSecret   string
	SigningKeyID  string
	SigningKey    string
	PollAttempts  int
	PollInterval  time.Duration
	MaxUploadSize int64
}

type CohereConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

type StorageConfig struct {
	Endpoint      string
	Region        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

type ChatConfig struct {
	RatePerMinute int
	Burst         int
	HistoryLimit  int
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
	Timezone    string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			AllowedOrigins:  getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			DSN:      getEnv("DB_DSN", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "breakfast"),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns: getEnvAsInt("DB_MIN_CONNS", 2),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Firebase: FirebaseConfig{
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		},
		Mux: MuxConfig{
			BaseURL:       getEnv("MUX_BASE_URL", "https://api.mux.com"),
			TokenID:       getEnv("MUX_TOKEN_ID", ""),
			TokenSecret:   getEnv("MUX_TOKEN_SECRET", ""),
			SigningKeyID:  getEnv("MUX_SIGNING_KEY_ID", ""),
			SigningKey:    getEnv("MUX_SIGNING_KEY", ""),
			PollAttempts:  getEnvAsInt("MUX_POLL_ATTEMPTS", 30),
			PollInterval:  getEnvAsDuration("MUX_POLL_INTERVAL", 5*time.Second),
			MaxUploadSize: int64(getEnvAsInt("MUX_MAX_UPLOAD_MB", 100)) * 1024 * 1024,
		},
		Cohere: CohereConfig{
			BaseURL: getEnv("COHERE_BASE_URL", "https://api.cohere.ai"),
			APIKey:  getEnv("COHERE_API_KEY", ""),
			Model:   getEnv("COHERE_MODEL", "command"),
		},
		Storage: StorageConfig{
			Endpoint:      getEnv("STORAGE_ENDPOINT", ""),
			Region:        getEnv("STORAGE_REGION", "us-east-1"),
			AccessKey:     getEnv("STORAGE_ACCESS_KEY", ""),
			SecretKey:     getEnv("STORAGE_SECRET_KEY", ""),
			PublicBaseURL: getEnv("STORAGE_PUBLIC_BASE_URL", ""),
		},
		Chat: ChatConfig{
			RatePerMinute: getEnvAsInt("CHAT_RATE_PER_MINUTE", 10),
			Burst:         getEnvAsInt("CHAT_BURST", 3),
			HistoryLimit:  getEnvAsInt("CHAT_HISTORY_LIMIT", 200),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Timezone:    getEnv("APP_TIMEZONE", "UTC"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.DSN == "" && c.Database.Host == "" {
		return fmt.Errorf("DB_DSN or DB_HOST is required")
	}

	if c.App.Environment == "production" {
		if c.Firebase.CredentialsPath == "" {
			return fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required in production")
		}
		if c.Mux.TokenID == "" || c.Mux.TokenSecret == "" {
			return fmt.Errorf("MUX_TOKEN_ID and MUX_TOKEN_SECRET are required in production")
		}
		if c.Cohere.APIKey == "" {
			return fmt.Errorf("COHERE_API_KEY is required in production")
		}
	}

	if c.Mux.PollAttempts <= 0 {
		return fmt.Errorf("MUX_POLL_ATTEMPTS must be positive")
	}

	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("APP_TIMEZONE: %w", err)
	}

	return nil
}

// PostgresDSN returns DB_DSN when set, otherwise a key/value DSN built from the
// individual DB_* settings.
func (c *DatabaseConfig) PostgresDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Name,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
