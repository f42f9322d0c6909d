package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port string `envconfig:"PORT" default:"8080"`

	PostgresDSN string `envconfig:"POSTGRES_DSN" required:"true"`
	MongoURI    string `envconfig:"MONGO_URI" required:"true"`
	MongoDB     string `envconfig:"MONGO_DB" default:"marketplace"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"redis:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	MediaEndpoint  string `envconfig:"MEDIA_ENDPOINT" default:"minio:9000"`
	MediaCloudName string `envconfig:"MEDIA_CLOUD_NAME" default:"marketplace-images"`
	MediaAPIKey    string `envconfig:"MEDIA_API_KEY" required:"true"`
	MediaAPISecret string `envconfig:"MEDIA_API_SECRET" required:"true"`
	MediaUseSSL    bool   `envconfig:"MEDIA_USE_SSL" default:"false"`
	MediaPublicURL string `envconfig:"MEDIA_PUBLIC_URL"`

	AuthTokenSecret string   `envconfig:"AUTH_TOKEN_SECRET" required:"true"`
	AuthTokenIssuer string   `envconfig:"AUTH_TOKEN_ISSUER"`
	AdminEmails     []string `envconfig:"ADMIN_EMAILS"`

	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"console"`
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over .env entries.
func Load(envFiles ...string) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load(envFiles...)

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if len(cfg.AuthTokenSecret) < 16 {
		return nil, fmt.Errorf("config: AUTH_TOKEN_SECRET must be at least 16 characters")
	}
	cfg.AdminEmails = normalizeEmails(cfg.AdminEmails)
	return &cfg, nil
}

func normalizeEmails(in []string) []string {
	out := make([]string, 0, len(in))
	for _, e := range in {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}
