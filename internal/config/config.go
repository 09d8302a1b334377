package config

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	cfg, err := Parse(os.LookupEnv)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	return cfg
}

// Parse builds the configuration from lookup, which has the signature of
// os.LookupEnv.
func Parse(lookup func(string) (string, bool)) (Config, error) {
	var missing []string
	// A helper function to get a required env var.
	getEnv := func(key string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		missing = append(missing, key)
		return ""
	}
	getEnvOr := func(key, fallback string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		return fallback
	}

	cfg := Config{
		DBName: getEnv("DB_NAME"),
		Port:   getEnv("PORT"),
		Turso: TursoConfig{
			PrimaryURL: getEnvOr("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnvOr("TURSO_AUTH_TOKEN", ""),
		},
		Stats: StatsConfig{
			Backend: getEnvOr("STATS_BACKEND", BackendSQL),
		},
		Mongo: MongoConfig{
			URI:      getEnvOr("MONGO_URI", ""),
			Database: getEnvOr("MONGO_DATABASE", "racquet"),
		},
		Redis: RedisConfig{
			Addr:     getEnvOr("REDIS_ADDR", ""),
			Password: getEnvOr("REDIS_PASSWORD", ""),
		},
		Slack: SlackConfig{
			Token:         getEnvOr("SLACK_BOT_TOKEN", ""),
			ChannelID:     getEnvOr("SLACK_CHANNEL_ID", ""),
			SigningSecret: getEnvOr("SLACK_SIGNING_SECRET", ""),
		},
		ProjectID: getEnvOr("GCP_PROJECT", ""),
		LogLevel:  getEnvOr("LOG_LEVEL", "info"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %v", missing)
	}
	switch cfg.Stats.Backend {
	case BackendSQL:
	case BackendMongo:
		if cfg.Mongo.URI == "" {
			return Config{}, fmt.Errorf("STATS_BACKEND=mongo requires MONGO_URI")
		}
	default:
		return Config{}, fmt.Errorf("unknown STATS_BACKEND %q", cfg.Stats.Backend)
	}
	return cfg, nil
}
