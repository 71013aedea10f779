package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultFlickrBaseURL = "https://api.flickr.com/services/rest/"

type Config struct {
	ServerPort string
	LogLevel   string

	FlickrBaseURL string
	FlickrAPIKey  string
	FlickrTimeout time.Duration
	PerPage       int

	MongoURI    string
	MongoDBName string
	MongoColl   string

	KafkaBrokers  []string
	KafkaTopic    string
	KafkaDLQTopic string
	KafkaGroupID  string

	OtelEnabled     bool
	OtelServiceName string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		FlickrBaseURL:   getEnv("FLICKR_BASE_URL", defaultFlickrBaseURL),
		FlickrAPIKey:    getEnv("FLICKR_API_KEY", ""),
		FlickrTimeout:   getDurationEnv("FLICKR_TIMEOUT", 10*time.Second),
		PerPage:         getIntEnv("PER_PAGE", 100),
		MongoURI:        getEnv("MONGO_URI", ""),
		MongoDBName:     getEnv("MONGO_DB_NAME", "photo_search"),
		MongoColl:       getEnv("MONGO_COLLECTION", "pages"),
		KafkaBrokers:    splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:      getEnv("KAFKA_TOPIC", "screen_states"),
		KafkaDLQTopic:   getEnv("KAFKA_DLQ_TOPIC", "screen_states_dlq"),
		KafkaGroupID:    getEnv("KAFKA_GROUP_ID", "state-tail"),
		OtelEnabled:     getBoolEnv("OTEL_ENABLED", false),
		OtelServiceName: getEnv("OTEL_SERVICE_NAME", "photo-search"),
	}
}

// Validate reports every setting that would keep the service from working.
func (c *Config) Validate() error {
	var errs []error
	if c.FlickrAPIKey == "" {
		errs = append(errs, errors.New("FLICKR_API_KEY is required"))
	}
	if c.PerPage <= 0 {
		errs = append(errs, fmt.Errorf("PER_PAGE must be positive, got %d", c.PerPage))
	}
	if c.FlickrTimeout <= 0 {
		errs = append(errs, fmt.Errorf("FLICKR_TIMEOUT must be positive, got %s", c.FlickrTimeout))
	}
	if c.ArchiveEnabled() && (c.MongoDBName == "" || c.MongoColl == "") {
		errs = append(errs, errors.New("MONGO_DB_NAME and MONGO_COLLECTION are required when MONGO_URI is set"))
	}
	if c.EventsEnabled() && c.KafkaTopic == "" {
		errs = append(errs, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set"))
	}
	return errors.Join(errs...)
}

// ArchiveEnabled reports whether pages are stored in MongoDB.
func (c *Config) ArchiveEnabled() bool {
	return c.MongoURI != ""
}

// EventsEnabled reports whether screen states go to Kafka rather than the log.
func (c *Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		// Try parsing as duration string (e.g. "1m", "60s")
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		// Try parsing as integer seconds
		if i, err := strconv.Atoi(value); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}
