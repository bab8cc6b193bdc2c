package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Workers   WorkersConfig   `yaml:"workers"`
	Providers ProvidersConfig `yaml:"providers"`
	Auth      AuthConfig      `yaml:"auth"`
	Pusher    PusherConfig    `yaml:"pusher"`
	Webhooks  WebhooksConfig  `yaml:"webhooks"`
	Ledger    LedgerConfig    `yaml:"ledger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Database        string        `yaml:"database"`
	SSLMode         string        `yaml:"ssl_mode"`
	MaxConnections  int           `yaml:"max_connections"`
	MinConnections  int           `yaml:"min_connections"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time"`
}

// ConnectionString returns the PostgreSQL connection string
func (c *PostgresConfig) ConnectionString() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, sslMode,
	)
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr         string        `yaml:"addr"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// KafkaConfig holds the settlement-event consumer configuration
type KafkaConfig struct {
	Brokers      []string      `yaml:"brokers"`
	Topic        string        `yaml:"topic"`
	GroupID      string        `yaml:"group_id"`
	Enabled      bool          `yaml:"enabled"`
	BatchSize    int           `yaml:"batch_size"`
	BatchTimeout time.Duration `yaml:"batch_timeout"`
}

// WorkersConfig holds background worker configuration
type WorkersConfig struct {
	LeaderboardSyncInterval time.Duration `yaml:"leaderboard_sync_interval"`
	ScorePollInterval       time.Duration `yaml:"score_poll_interval"`
	SyncEnabled             bool          `yaml:"sync_enabled"`
	PollEnabled             bool          `yaml:"poll_enabled"`
}

// ProvidersConfig holds upstream sports-data provider configuration
type ProvidersConfig struct {
	ESPN       ESPNConfig       `yaml:"espn"`
	SportsData SportsDataConfig `yaml:"sportsdata"`
	YouTube    YouTubeConfig    `yaml:"youtube"`
}

// ESPNConfig controls the ESPN site API client
type ESPNConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// SportsDataConfig controls the SportsDataIO client
type SportsDataConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

// YouTubeConfig controls the highlights search client
type YouTubeConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

// AuthConfig holds token verification configuration
type AuthConfig struct {
	JWTSecret  string `yaml:"jwt_secret"`
	CookieName string `yaml:"cookie_name"`
}

// PusherConfig holds the public realtime-channel credentials exposed to
// clients. The app secret never lives here.
type PusherConfig struct {
	Key     string `yaml:"key"`
	Cluster string `yaml:"cluster"`
}

// WebhooksConfig holds third-party webhook verification settings
type WebhooksConfig struct {
	EbayVerificationToken string `yaml:"ebay_verification_token"`
	EbayEndpoint          string `yaml:"ebay_endpoint"`
}

// LedgerConfig holds gamification limits
type LedgerConfig struct {
	DefaultLimit       int `yaml:"default_limit"`
	MaxLimit           int `yaml:"max_limit"`
	MinSettled         int `yaml:"min_settled"`
	PredictionWinCoins int `yaml:"prediction_win_coins"`
	ScheduleWindowDays int `yaml:"schedule_window_days"`
	ScheduleLimit      int `yaml:"schedule_limit"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply defaults
	cfg.applyDefaults()

	return &cfg, nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 5 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 120 * time.Second
	}

	// PostgreSQL defaults
	if c.Postgres.Host == "" {
		c.Postgres.Host = "localhost"
	}
	if c.Postgres.Port == 0 {
		c.Postgres.Port = 5432
	}
	if c.Postgres.MaxConnections == 0 {
		c.Postgres.MaxConnections = 50
	}
	if c.Postgres.MinConnections == 0 {
		c.Postgres.MinConnections = 5
	}
	if c.Postgres.MaxConnLifetime == 0 {
		c.Postgres.MaxConnLifetime = 1 * time.Hour
	}
	if c.Postgres.MaxConnIdleTime == 0 {
		c.Postgres.MaxConnIdleTime = 30 * time.Minute
	}

	// Redis defaults
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = 50
	}
	if c.Redis.MinIdleConns == 0 {
		c.Redis.MinIdleConns = 5
	}
	if c.Redis.DialTimeout == 0 {
		c.Redis.DialTimeout = 5 * time.Second
	}
	if c.Redis.ReadTimeout == 0 {
		c.Redis.ReadTimeout = 3 * time.Second
	}
	if c.Redis.WriteTimeout == 0 {
		c.Redis.WriteTimeout = 3 * time.Second
	}

	// Kafka defaults
	if len(c.Kafka.Brokers) == 0 {
		c.Kafka.Brokers = []string{"localhost:9092"}
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "game-settlements"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "settlement-consumer"
	}
	if c.Kafka.BatchSize == 0 {
		c.Kafka.BatchSize = 50
	}
	if c.Kafka.BatchTimeout == 0 {
		c.Kafka.BatchTimeout = 1 * time.Second
	}

	// Worker defaults
	if c.Workers.LeaderboardSyncInterval == 0 {
		c.Workers.LeaderboardSyncInterval = 5 * time.Minute
	}
	if c.Workers.ScorePollInterval == 0 {
		c.Workers.ScorePollInterval = 30 * time.Second
	}

	// Provider defaults
	if c.Providers.ESPN.BaseURL == "" {
		c.Providers.ESPN.BaseURL = "https://site.api.espn.com/apis/site/v2/sports"
	}
	if c.Providers.ESPN.Timeout == 0 {
		c.Providers.ESPN.Timeout = 10 * time.Second
	}
	if c.Providers.SportsData.BaseURL == "" {
		c.Providers.SportsData.BaseURL = "https://api.sportsdata.io/v3"
	}
	if c.Providers.SportsData.Timeout == 0 {
		c.Providers.SportsData.Timeout = 10 * time.Second
	}
	if c.Providers.YouTube.BaseURL == "" {
		c.Providers.YouTube.BaseURL = "https://www.googleapis.com/youtube/v3"
	}
	if c.Providers.YouTube.Timeout == 0 {
		c.Providers.YouTube.Timeout = 10 * time.Second
	}

	// Secrets fall back to the environment so a config file is optional
	if c.Providers.SportsData.APIKey == "" {
		c.Providers.SportsData.APIKey = os.Getenv("SPORTSDATA_API_KEY")
	}
	if c.Providers.YouTube.APIKey == "" {
		c.Providers.YouTube.APIKey = os.Getenv("YOUTUBE_API_KEY")
	}
	if c.Auth.JWTSecret == "" {
		c.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	}
	if c.Pusher.Key == "" {
		c.Pusher.Key = os.Getenv("PUSHER_KEY")
	}
	if c.Pusher.Cluster == "" {
		c.Pusher.Cluster = os.Getenv("PUSHER_CLUSTER")
	}
	if c.Webhooks.EbayVerificationToken == "" {
		c.Webhooks.EbayVerificationToken = os.Getenv("EBAY_VERIFICATION_TOKEN")
	}
	if c.Webhooks.EbayEndpoint == "" {
		c.Webhooks.EbayEndpoint = os.Getenv("EBAY_ENDPOINT")
	}

	// Auth defaults
	if c.Auth.CookieName == "" {
		c.Auth.CookieName = "auth_token"
	}

	// Ledger defaults
	if c.Ledger.DefaultLimit == 0 {
		c.Ledger.DefaultLimit = 20
	}
	if c.Ledger.MaxLimit == 0 {
		c.Ledger.MaxLimit = 100
	}
	if c.Ledger.MinSettled == 0 {
		c.Ledger.MinSettled = 5
	}
	if c.Ledger.PredictionWinCoins == 0 {
		c.Ledger.PredictionWinCoins = 50
	}
	if c.Ledger.ScheduleWindowDays == 0 {
		c.Ledger.ScheduleWindowDays = 30
	}
	if c.Ledger.ScheduleLimit == 0 {
		c.Ledger.ScheduleLimit = 8
	}
}

// DefaultConfig returns a configuration with all defaults
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.Workers.SyncEnabled = true
	cfg.Workers.PollEnabled = true
	return cfg
}
