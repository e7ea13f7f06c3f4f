package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "STORE_DRIVER", "MONGODB_DATABASE", "SHUTDOWN_TIMEOUT", "API_KEY", "S3_BUCKET", "RABBITMQ_URL"} {
		t.Setenv(k, "")
	}

	cfg := Load(zerolog.Nop())
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, "quill", cfg.MongoDatabase)
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.APIKey)
	assert.Empty(t, cfg.S3Bucket)
	assert.Empty(t, cfg.RabbitMQURL)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STORE_DRIVER", DriverSQLite)
	t.Setenv("SQLITE_PATH", "/tmp/q.db")
	t.Setenv("SHUTDOWN_TIMEOUT", "5")

	cfg := Load(zerolog.Nop())
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "/tmp/q.db", cfg.SQLitePath)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
}

func TestLoadClient(t *testing.T) {
	t.Setenv("QUILL_API_URL", "http://api:8080")
	t.Setenv("QUILL_USER", "ada")
	t.Setenv("API_KEY", "k")
	t.Setenv("AUTOSAVE_INTERVAL", "2m")
	t.Setenv("REQUEST_TIMEOUT", "")

	cfg := LoadClient(zerolog.Nop())
	assert.Equal(t, "http://api:8080", cfg.APIURL)
	assert.Equal(t, "ada", cfg.User)
	assert.Equal(t, "k", cfg.APIKey)
	assert.Equal(t, 2*time.Minute, cfg.AutoSaveInterval)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"", time.Minute},
		{"1500ms", 1500 * time.Millisecond},
		{"45", 45 * time.Second},
		{"soon", time.Minute},
		{"-3", time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("QUILL_TEST_DURATION", tt.value)
			assert.Equal(t, tt.want, getEnvDuration("QUILL_TEST_DURATION", time.Minute))
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("QUILL_TEST_INT", "12")
	assert.Equal(t, 12, getEnvInt("QUILL_TEST_INT", 3))
	t.Setenv("QUILL_TEST_INT", "twelve")
	assert.Equal(t, 3, getEnvInt("QUILL_TEST_INT", 3))
}
