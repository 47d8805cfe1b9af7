package config

import "os"

// Server captures process-level configuration. Compliance-domain constants
// (thresholds, caps) live in internal/compliance/config.
type Server struct {
	Addr          string
	AdminToken    string
	JWTSigningKey string
	PostgresDSN   string
	RedisURL      string
	KafkaBrokers  string
	KafkaTopic    string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("VIGIL_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	adminToken := os.Getenv("VIGIL_ADMIN_TOKEN")
	if adminToken == "" {
		// Development default; must be overridden in production.
		adminToken = "dev-admin-token-change-in-production"
	}

	jwtSigningKey := os.Getenv("VIGIL_JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	topic := os.Getenv("VIGIL_KAFKA_TOPIC")
	if topic == "" {
		topic = "vigil.compliance.trail"
	}

	return Server{
		Addr:          addr,
		AdminToken:    adminToken,
		JWTSigningKey: jwtSigningKey,
		PostgresDSN:   os.Getenv("VIGIL_POSTGRES_DSN"),
		RedisURL:      os.Getenv("VIGIL_REDIS_URL"),
		KafkaBrokers:  os.Getenv("VIGIL_KAFKA_BROKERS"),
		KafkaTopic:    topic,
	}
}
