package config

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"SERVER_PORT", "LOG_LEVEL", "FLICKR_BASE_URL", "FLICKR_API_KEY", "FLICKR_TIMEOUT",
		"PER_PAGE", "MONGO_URI", "MONGO_DB_NAME", "KAFKA_BROKERS", "KAFKA_TOPIC", "OTEL_ENABLED",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, defaultFlickrBaseURL, cfg.FlickrBaseURL)
	assert.Equal(t, 10*time.Second, cfg.FlickrTimeout)
	assert.Equal(t, 100, cfg.PerPage)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.ArchiveEnabled())
	assert.False(t, cfg.EventsEnabled())
	assert.False(t, cfg.OtelEnabled)
	assert.Equal(t, "photo_search", cfg.MongoDBName)
	assert.Equal(t, "screen_states", cfg.KafkaTopic)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("FLICKR_API_KEY", "secret")
	t.Setenv("FLICKR_TIMEOUT", "3")
	t.Setenv("PER_PAGE", "50")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	assert.Equal(t, "secret", cfg.FlickrAPIKey)
	assert.Equal(t, 3*time.Second, cfg.FlickrTimeout)
	assert.Equal(t, 50, cfg.PerPage)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.ArchiveEnabled())
	assert.True(t, cfg.EventsEnabled())
	assert.True(t, cfg.OtelEnabled)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("PER_PAGE", "lots")
	t.Setenv("FLICKR_TIMEOUT", "soon")
	t.Setenv("OTEL_ENABLED", "maybe")

	cfg := Load()

	assert.Equal(t, 100, cfg.PerPage)
	assert.Equal(t, 10*time.Second, cfg.FlickrTimeout)
	assert.False(t, cfg.OtelEnabled)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			FlickrAPIKey:  "key",
			FlickrTimeout: time.Second,
			PerPage:       100,
			MongoDBName:   "photo_search",
			MongoColl:     "pages",
			KafkaTopic:    "screen_states",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing api key", mutate: func(c *Config) { c.FlickrAPIKey = "" }, wantErr: "FLICKR_API_KEY"},
		{name: "zero per page", mutate: func(c *Config) { c.PerPage = 0 }, wantErr: "PER_PAGE"},
		{name: "negative timeout", mutate: func(c *Config) { c.FlickrTimeout = -time.Second }, wantErr: "FLICKR_TIMEOUT"},
		{
			name: "archive without collection",
			mutate: func(c *Config) {
				c.MongoURI = "mongodb://localhost"
				c.MongoColl = ""
			},
			wantErr: "MONGO_COLLECTION",
		},
		{
			name: "brokers without topic",
			mutate: func(c *Config) {
				c.KafkaBrokers = []string{"kafka:9092"}
				c.KafkaTopic = ""
			},
			wantErr: "KAFKA_TOPIC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSlogLevel_Unknown(t *testing.T) {
	cfg := &Config{LogLevel: "chatty"}
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}
