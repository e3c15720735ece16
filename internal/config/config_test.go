package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear relevant env vars
	envVars := []string{
		"SERVICE_PRINCIPAL", "HTTP_PORT", "LOG_LEVEL", "LOG_FORMAT", "METRICS_PORT",
		"BACKEND_TURN_URL", "BACKEND_REQUEST_TIMEOUT",
		"TTS_PROVIDER", "TTS_LANGUAGE", "TTS_MODEL",
		"SESSION_MAX_TURN_AUDIO_BYTES", "SESSION_MAX_TURNS", "SESSION_MAX_DURATION",
		"DATABASE_URL", "KAFKA_ENABLED", "KAFKA_BROKERS", "KAFKA_TOPIC_TURN", "KAFKA_TOPIC_SESSION",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}

	cfg := Load()

	// Service defaults
	if cfg.Service.Principal != "svc-interview-live" {
		t.Errorf("expected default principal 'svc-interview-live', got %s", cfg.Service.Principal)
	}
	if cfg.Service.HTTPPort != "8080" {
		t.Errorf("expected default HTTP port '8080', got %s", cfg.Service.HTTPPort)
	}

	// Backend defaults
	if cfg.Backend.TurnURL != "http://localhost:5001/process_interview_turn" {
		t.Errorf("unexpected default turn URL: %s", cfg.Backend.TurnURL)
	}
	if cfg.Backend.RequestTimeout != 90*time.Second {
		t.Errorf("expected default request timeout 90s, got %v", cfg.Backend.RequestTimeout)
	}

	// TTS defaults
	if cfg.TTS.Provider != "edge" {
		t.Errorf("expected default TTS provider 'edge', got %s", cfg.TTS.Provider)
	}
	if cfg.TTS.Language != "en-US-AriaNeural" {
		t.Errorf("expected default TTS language 'en-US-AriaNeural', got %s", cfg.TTS.Language)
	}
	if cfg.TTS.Model != "" {
		t.Errorf("expected empty default TTS model, got %s", cfg.TTS.Model)
	}

	// Session limit defaults
	if cfg.Session.MaxTurnAudioBytes != 10*1024*1024 {
		t.Errorf("expected default max turn audio bytes 10MB, got %d", cfg.Session.MaxTurnAudioBytes)
	}
	if cfg.Session.MaxTurns != 200 {
		t.Errorf("expected default max turns 200, got %d", cfg.Session.MaxTurns)
	}
	if cfg.Session.MaxDuration != 2*time.Hour {
		t.Errorf("expected default max duration 2h, got %v", cfg.Session.MaxDuration)
	}

	// Kafka defaults
	if cfg.Kafka.Enabled {
		t.Error("expected Kafka disabled by default")
	}
	if cfg.Kafka.TopicTurn != "interview.turn.completed" {
		t.Errorf("unexpected default turn topic: %s", cfg.Kafka.TopicTurn)
	}
	if cfg.Kafka.TopicSession != "interview.session.ended" {
		t.Errorf("unexpected default session topic: %s", cfg.Kafka.TopicSession)
	}

	// Observability defaults
	if cfg.Observability.LogLevel != "info" {
		t.Errorf("expected default log level 'info', got %s", cfg.Observability.LogLevel)
	}
	if cfg.Observability.LogFormat != "json" {
		t.Errorf("expected default log format 'json', got %s", cfg.Observability.LogFormat)
	}
	if cfg.Observability.MetricsPort != "9090" {
		t.Errorf("expected default metrics port '9090', got %s", cfg.Observability.MetricsPort)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Setenv("SERVICE_PRINCIPAL", "custom-principal")
	os.Setenv("HTTP_PORT", "9999")
	os.Setenv("BACKEND_TURN_URL", "https://backend.example.com/turn")
	os.Setenv("BACKEND_REQUEST_TIMEOUT", "30s")
	os.Setenv("TTS_PROVIDER", "sarvam")
	os.Setenv("TTS_LANGUAGE", "hi-IN")
	os.Setenv("TTS_MODEL", "bulbul:v3")
	os.Setenv("SESSION_MAX_TURN_AUDIO_BYTES", "5242880")
	os.Setenv("SESSION_MAX_TURNS", "50")
	os.Setenv("SESSION_MAX_DURATION", "45m")
	os.Setenv("KAFKA_ENABLED", "true")
	os.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092")
	os.Setenv("LOG_LEVEL", "debug")

	defer func() {
		for _, v := range []string{
			"SERVICE_PRINCIPAL", "HTTP_PORT", "BACKEND_TURN_URL", "BACKEND_REQUEST_TIMEOUT",
			"TTS_PROVIDER", "TTS_LANGUAGE", "TTS_MODEL",
			"SESSION_MAX_TURN_AUDIO_BYTES", "SESSION_MAX_TURNS", "SESSION_MAX_DURATION",
			"KAFKA_ENABLED", "KAFKA_BROKERS", "LOG_LEVEL",
		} {
			os.Unsetenv(v)
		}
	}()

	cfg := Load()

	if cfg.Service.Principal != "custom-principal" {
		t.Errorf("expected principal 'custom-principal', got %s", cfg.Service.Principal)
	}
	if cfg.Service.HTTPPort != "9999" {
		t.Errorf("expected HTTP port '9999', got %s", cfg.Service.HTTPPort)
	}
	if cfg.Backend.TurnURL != "https://backend.example.com/turn" {
		t.Errorf("unexpected turn URL: %s", cfg.Backend.TurnURL)
	}
	if cfg.Backend.RequestTimeout != 30*time.Second {
		t.Errorf("expected request timeout 30s, got %v", cfg.Backend.RequestTimeout)
	}
	if cfg.TTS.Provider != "sarvam" {
		t.Errorf("expected TTS provider 'sarvam', got %s", cfg.TTS.Provider)
	}
	if cfg.TTS.Language != "hi-IN" {
		t.Errorf("expected TTS language 'hi-IN', got %s", cfg.TTS.Language)
	}
	if cfg.TTS.Model != "bulbul:v3" {
		t.Errorf("expected TTS model 'bulbul:v3', got %s", cfg.TTS.Model)
	}
	if cfg.Session.MaxTurnAudioBytes != 5242880 {
		t.Errorf("expected max turn audio bytes 5242880, got %d", cfg.Session.MaxTurnAudioBytes)
	}
	if cfg.Session.MaxTurns != 50 {
		t.Errorf("expected max turns 50, got %d", cfg.Session.MaxTurns)
	}
	if cfg.Session.MaxDuration != 45*time.Minute {
		t.Errorf("expected max duration 45m, got %v", cfg.Session.MaxDuration)
	}
	if !cfg.Kafka.Enabled {
		t.Error("expected Kafka enabled")
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[0] != "broker-1:9092" || cfg.Kafka.Brokers[1] != "broker-2:9092" {
		t.Errorf("unexpected brokers: %v", cfg.Kafka.Brokers)
	}
	if cfg.Observability.LogLevel != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Observability.LogLevel)
	}
}

func TestLoad_InvalidValuesFallBackToDefaults(t *testing.T) {
	os.Setenv("SESSION_MAX_TURNS", "not-a-number")
	os.Setenv("BACKEND_REQUEST_TIMEOUT", "soon")
	os.Setenv("KAFKA_ENABLED", "yes-please")
	defer func() {
		os.Unsetenv("SESSION_MAX_TURNS")
		os.Unsetenv("BACKEND_REQUEST_TIMEOUT")
		os.Unsetenv("KAFKA_ENABLED")
	}()

	cfg := Load()

	if cfg.Session.MaxTurns != 200 {
		t.Errorf("expected fallback max turns 200, got %d", cfg.Session.MaxTurns)
	}
	if cfg.Backend.RequestTimeout != 90*time.Second {
		t.Errorf("expected fallback request timeout 90s, got %v", cfg.Backend.RequestTimeout)
	}
	if cfg.Kafka.Enabled {
		t.Error("expected fallback Kafka disabled for unparsable bool")
	}
}
