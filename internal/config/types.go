package config

// Config holds all configuration for the application.
type Config struct {
	DBName    string
	Port      string
	Turso     TursoConfig
	Stats     StatsConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Slack     SlackConfig
	ProjectID string
	LogLevel  string
}

// Backend names accepted in STATS_BACKEND.
const (
	BackendSQL   = "sql"
	BackendMongo = "mongo"
)

type StatsConfig struct {
	Backend string
}
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
type MongoConfig struct {
	URI      string
	Database string
}
type RedisConfig struct {
	Addr     string
	Password string
}
type SlackConfig struct {
	Token         string
	ChannelID     string
	SigningSecret string
}

// SlackEnabled reports whether result notifications can be posted.
func (c Config) SlackEnabled() bool {
	return c.Slack.Token != "" && c.Slack.ChannelID != ""
}
