// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Configuration holds all settings for the interview live service.
type Configuration struct {
	Service       ServiceConfig
	Backend       BackendConfig
	TTS           TTSConfig
	Session       SessionLimits
	Store         StoreConfig
	Kafka         KafkaConfig
	Observability ObservabilityConfig
}

// ServiceConfig holds process identity and listen settings.
type ServiceConfig struct {
	Principal string
	HTTPPort  string
}

// BackendConfig points at the remote turn-processing endpoint.
type BackendConfig struct {
	TurnURL        string
	RequestTimeout time.Duration
}

// TTSConfig holds default speech synthesis options for live sessions.
type TTSConfig struct {
	Provider string
	Language string
	Model    string
}

// SessionLimits defines safety guardrails for live sessions.
type SessionLimits struct {
	MaxTurnAudioBytes int64
	MaxTurns          int
	MaxDuration       time.Duration
}

// StoreConfig holds interview record persistence settings.
// An empty DatabaseURL selects the in-memory store.
type StoreConfig struct {
	DatabaseURL string
}

// KafkaConfig holds event publishing settings.
type KafkaConfig struct {
	Enabled      bool
	Brokers      []string
	TopicTurn    string
	TopicSession string
	Principal    string
}

// ObservabilityConfig holds logging and metrics settings.
type ObservabilityConfig struct {
	LogLevel    string
	LogFormat   string
	MetricsPort string
}

// Load reads configuration from environment variables, applying defaults.
func Load() *Configuration {
	return &Configuration{
		Service: ServiceConfig{
			Principal: envOrDefault("SERVICE_PRINCIPAL", "svc-interview-live"),
			HTTPPort:  envOrDefault("HTTP_PORT", "8080"),
		},
		Backend: BackendConfig{
			TurnURL:        envOrDefault("BACKEND_TURN_URL", "http://localhost:5001/process_interview_turn"),
			RequestTimeout: envDuration("BACKEND_REQUEST_TIMEOUT", 90*time.Second),
		},
		TTS: TTSConfig{
			Provider: envOrDefault("TTS_PROVIDER", "edge"),
			Language: envOrDefault("TTS_LANGUAGE", "en-US-AriaNeural"),
			Model:    os.Getenv("TTS_MODEL"),
		},
		Session: SessionLimits{
			MaxTurnAudioBytes: envInt64("SESSION_MAX_TURN_AUDIO_BYTES", 10*1024*1024),
			MaxTurns:          envInt("SESSION_MAX_TURNS", 200),
			MaxDuration:       envDuration("SESSION_MAX_DURATION", 2*time.Hour),
		},
		Store: StoreConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
		},
		Kafka: KafkaConfig{
			Enabled:      envBool("KAFKA_ENABLED", false),
			Brokers:      envList("KAFKA_BROKERS"),
			TopicTurn:    envOrDefault("KAFKA_TOPIC_TURN", "interview.turn.completed"),
			TopicSession: envOrDefault("KAFKA_TOPIC_SESSION", "interview.session.ended"),
			Principal:    envOrDefault("SERVICE_PRINCIPAL", "svc-interview-live"),
		},
		Observability: ObservabilityConfig{
			LogLevel:    envOrDefault("LOG_LEVEL", "info"),
			LogFormat:   envOrDefault("LOG_FORMAT", "json"),
			MetricsPort: envOrDefault("METRICS_PORT", "9090"),
		},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
