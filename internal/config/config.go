package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr               string
	MongoURI           string
	MongoDatabase      string
	SurveyCollection   string
	ResponseCollection string
	Timeout            time.Duration
	ServerLog          *log.Logger
	JWTSecret          []byte
	JWTIssuer          string
	JWTAudience        string
	AllowedOrigins     []string
}

// Load reads environment variables and returns a fully populated Config.
// A local .env file is applied first when present; real environment
// variables always win.
func Load() Config {
	_ = godotenv.Load()

	timeout := 10 * time.Second
	if v := os.Getenv("MONGO_CONNECT_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			timeout = parsed
		}
	}

	jwtSecret := strings.TrimSpace(os.Getenv("AUTH_JWT_SECRET"))
	if jwtSecret == "" {
		log.Fatal("AUTH_JWT_SECRET must be configured")
	}

	cfg := Config{
		Addr:               envOrDefault("HTTP_ADDR", ":8080"),
		MongoURI:           envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:      envOrDefault("MONGO_DB", "sondago"),
		SurveyCollection:   envOrDefault("SURVEY_COLLECTION", "surveys"),
		ResponseCollection: envOrDefault("RESPONSE_COLLECTION", "responses"),
		Timeout:            timeout,
		ServerLog:          log.New(os.Stdout, "[survey-api] ", log.LstdFlags|log.Lshortfile),
		JWTSecret:          []byte(jwtSecret),
		JWTIssuer:          strings.TrimSpace(os.Getenv("AUTH_JWT_ISSUER")),
		JWTAudience:        strings.TrimSpace(os.Getenv("AUTH_JWT_AUDIENCE")),
		AllowedOrigins:     parseList("API_ALLOWED_ORIGINS", []string{"*"}),
	}

	return cfg
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
