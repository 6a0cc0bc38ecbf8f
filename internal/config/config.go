package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ServerAddress   string
	MongoURI        string
	MongoDatabase   string
	JWTSecret       string
	JWTExpiration   time.Duration
	SendGridAPIKey  string
	EmailFrom       string
	StripeSecretKey string
	StorageBucket   string
	DataDir         string
	MaxUploadSizeMB int64
}

func Load() *Config {
	return &Config{
		ServerAddress:   getEnv("SERVER_ADDRESS", ":8080"),
		MongoURI:        getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGODB_DB", "tunedrop"),
		JWTSecret:       getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTExpiration:   getEnvDuration("JWT_EXPIRATION", 24*time.Hour),
		SendGridAPIKey:  getEnv("SENDGRID_API_KEY", ""),
		EmailFrom:       getEnv("EMAIL_FROM", "noreply@tunedrop.io"),
		StripeSecretKey: getEnv("STRIPE_SECRET_KEY", ""),
		StorageBucket:   getEnv("STORAGE_BUCKET", ""),
		DataDir:         getEnv("DATA_DIR", "./data"),
		MaxUploadSizeMB: getEnvInt64("MAX_UPLOAD_SIZE_MB", 50),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}
