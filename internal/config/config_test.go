package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "tunedrop", cfg.MongoDatabase)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiration)
	assert.Equal(t, int64(50), cfg.MaxUploadSizeMB)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9999")
	t.Setenv("MONGODB_DB", "tunedrop_test")
	t.Setenv("JWT_EXPIRATION", "30m")
	t.Setenv("MAX_UPLOAD_SIZE_MB", "10")

	cfg := Load()

	assert.Equal(t, ":9999", cfg.ServerAddress)
	assert.Equal(t, "tunedrop_test", cfg.MongoDatabase)
	assert.Equal(t, 30*time.Minute, cfg.JWTExpiration)
	assert.Equal(t, int64(10), cfg.MaxUploadSizeMB)
}

func TestLoadIgnoresBadValues(t *testing.T) {
	t.Setenv("JWT_EXPIRATION", "soon")
	t.Setenv("MAX_UPLOAD_SIZE_MB", "lots")

	cfg := Load()

	assert.Equal(t, 24*time.Hour, cfg.JWTExpiration)
	assert.Equal(t, int64(50), cfg.MaxUploadSizeMB)
}
