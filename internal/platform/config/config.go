package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures process-level configuration. FromEnv builds it from
// environment variables so main stays lean.
type Config struct {
	Addr        string
	DatabaseURL string
	RedisURL    string

	JWTSigningKey string
	JWTIssuer     string
	SessionTTL    time.Duration

	KafkaBrokers    string
	KafkaAuditTopic string

	AnalyzerURL         string
	AnalysisCallbackURL string
	RoomBaseURL         string

	TxTimeout time.Duration
}

// FromEnv reads configuration from the environment with development defaults.
func FromEnv() Config {
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default - must be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Config{
		Addr:                getEnv("TALENTGATE_ADDR", ":8080"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		RedisURL:            os.Getenv("REDIS_URL"),
		JWTSigningKey:       jwtSigningKey,
		JWTIssuer:           getEnv("JWT_ISSUER", "talentgate"),
		SessionTTL:          getEnvDuration("SESSION_TTL_MINUTES", 60) * time.Minute,
		KafkaBrokers:        os.Getenv("KAFKA_BROKERS"),
		KafkaAuditTopic:     getEnv("KAFKA_AUDIT_TOPIC", "talentgate.audit"),
		AnalyzerURL:         os.Getenv("ANALYZER_URL"),
		AnalysisCallbackURL: getEnv("ANALYSIS_CALLBACK_URL", "http://localhost:8080/api/callbacks/analysis"),
		RoomBaseURL:         getEnv("ROOM_BASE_URL", "https://meet.talentgate.local"),
		TxTimeout:           getEnvDuration("TX_TIMEOUT_SECONDS", 5) * time.Second,
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvDuration(key string, def int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n)
		}
	}
	return time.Duration(def)
}
