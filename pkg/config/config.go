package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration. Leaf fields use split_words so
// every variable carries its section prefix (DB_PATH, never a bare PATH).
type Config struct {
	Server   ServerConfig   `envconfig:"SERVER"`
	Database DatabaseConfig `envconfig:"DB"`
	Redis    RedisConfig    `envconfig:"REDIS"`
	LLM      LLMConfig      `envconfig:"LLM"`
	LiveKit  LiveKitConfig  `envconfig:"LIVEKIT"`
	Storage  StorageConfig  `envconfig:"STORAGE"`
	Log      LogConfig      `envconfig:"LOG"`
	Agent    AgentConfig    `envconfig:"AGENT"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string        `split_words:"true" default:"5003"`
	Host            string        `split_words:"true" default:"0.0.0.0"`
	Environment     string        `split_words:"true" default:"development"`
	AllowedOrigins  []string      `split_words:"true" default:"http://localhost:3000"`
	ShutdownTimeout time.Duration `split_words:"true" default:"10s"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver         string        `split_words:"true" default:"postgres"`
	Host           string        `split_words:"true" default:"localhost"`
	Port           string        `split_words:"true" default:"5432"`
	User           string        `split_words:"true" default:"postgres"`
	Password       string        `split_words:"true" default:"postgres"`
	Name           string        `split_words:"true" default:"voice_transcripts"`
	SSLMode        string        `split_words:"true" default:"disable"`
	Path           string        `split_words:"true" default:"voice_transcripts.db"` // sqlite only
	MaxConns       int           `split_words:"true" default:"25"`
	MinConns       int           `split_words:"true" default:"5"`
	AutoMigrate    bool          `split_words:"true" default:"true"`
	ConnectTimeout time.Duration `split_words:"true" default:"30s"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool   `split_words:"true" default:"false"`
	Host     string `split_words:"true" default:"localhost"`
	Port     string `split_words:"true" default:"6379"`
	Password string `split_words:"true"`
	DB       int    `split_words:"true" default:"0"`
}

// LLMConfig holds settings for the OpenAI-compatible completion service
type LLMConfig struct {
	Enabled     bool          `split_words:"true" default:"true"`
	BaseURL     string        `split_words:"true" default:"http://localhost:11434/v1"`
	APIKey      string        `split_words:"true" default:"ollama"`
	Model       string        `split_words:"true" default:"gemma3:4b"`
	Temperature float64       `split_words:"true" default:"0.3"`
	Timeout     time.Duration `split_words:"true" default:"60s"`
}

// LiveKitConfig holds LiveKit configuration
type LiveKitConfig struct {
	URL       string `split_words:"true" default:"ws://localhost:7880"`
	APIKey    string `split_words:"true"`
	APISecret string `split_words:"true"`
	Room      string `split_words:"true"`
	Identity  string `split_words:"true" default:"transcript-recorder"`
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Enabled         bool          `split_words:"true" default:"false"`
	Endpoint        string        `split_words:"true" default:"localhost:9000"`
	AccessKeyID     string        `split_words:"true" default:"minioadmin"`
	SecretAccessKey string        `split_words:"true" default:"minioadmin"`
	BucketName      string        `split_words:"true" default:"voice-transcripts"`
	UseSSL          bool          `split_words:"true" default:"false"`
	PublicURL       string        `split_words:"true"`
	URLExpiry       time.Duration `split_words:"true" default:"1h"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level string `split_words:"true" default:"info"`
	File  string `split_words:"true"`
}

// AgentConfig describes the well-known user and the recorder pipeline
type AgentConfig struct {
	Username      string `split_words:"true" default:"agent_user"`
	Email         string `split_words:"true" default:"agent@example.com"`
	Source        string `split_words:"true" default:"livekit_agent"`
	RecordInterim bool   `split_words:"true" default:"false"`
	QueueSize     int    `split_words:"true" default:"256"`
	Workers       int    `split_words:"true" default:"1"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.Database.Driver)
	}
	if c.Storage.Enabled && c.Storage.BucketName == "" {
		return fmt.Errorf("STORAGE_BUCKET_NAME is required when storage is enabled")
	}
	if c.Agent.Username == "" {
		return fmt.Errorf("AGENT_USERNAME is required")
	}
	if c.Agent.Workers < 1 {
		return fmt.Errorf("AGENT_WORKERS must be at least 1")
	}
	return nil
}

// ValidateLiveKit checks the settings the room listener needs
func (c *Config) ValidateLiveKit() error {
	if c.LiveKit.APIKey == "" || c.LiveKit.APISecret == "" {
		return fmt.Errorf("LIVEKIT_API_KEY and LIVEKIT_API_SECRET are required")
	}
	if c.LiveKit.Room == "" {
		return fmt.Errorf("LIVEKIT_ROOM is required")
	}
	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	if c.Database.Driver == "sqlite" {
		return c.Database.Path
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// GetServerAddr returns the HTTP listen address
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
