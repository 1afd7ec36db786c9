package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Mongo      MongoConfig      `mapstructure:"mongo"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Email      EmailConfig      `mapstructure:"email"`
	AI         AIConfig         `mapstructure:"ai"`
	ElevenLabs ElevenLabsConfig `mapstructure:"elevenlabs"`
	Snowflake  SnowflakeConfig  `mapstructure:"snowflake"`
	Security   SecurityConfig   `mapstructure:"security"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Env        string           `mapstructure:"env"`
}

type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	MiddlewareTimeout time.Duration `mapstructure:"middleware_timeout"`
}

type MongoConfig struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
	Audience  string `mapstructure:"audience"`
}

type EmailConfig struct {
	From        string `mapstructure:"from"`
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	FrontendURL string `mapstructure:"frontend_url"`
}

// Configured reports whether an SMTP transport is available. Missing email
// configuration is an expected deployment state, not an error.
func (c EmailConfig) Configured() bool {
	return c.Host != "" && c.Username != "" && c.Password != ""
}

type AIConfig struct {
	DefaultProvider string       `mapstructure:"default_provider"`
	Gemini          GeminiConfig `mapstructure:"gemini"`
	OpenAI          OpenAIConfig `mapstructure:"openai"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type ElevenLabsConfig struct {
	APIKey         string `mapstructure:"api_key"`
	BaseURL        string `mapstructure:"base_url"`
	DefaultVoiceID string `mapstructure:"default_voice_id"`
}

type SnowflakeConfig struct {
	Account   string `mapstructure:"account"`
	User      string `mapstructure:"user"`
	Password  string `mapstructure:"password"`
	Warehouse string `mapstructure:"warehouse"`
	Database  string `mapstructure:"database"`
	Schema    string `mapstructure:"schema"`
	Role      string `mapstructure:"role"`
}

// Configured reports whether warehouse sync is enabled for this deployment.
func (c SnowflakeConfig) Configured() bool {
	return c.Account != "" && c.User != "" && c.Password != ""
}

type SecurityConfig struct {
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
	Burst             int `mapstructure:"burst"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// IsProduction reports whether the app runs with production behavior
// (JSON logs, no claim-dump diagnostics).
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if _, statErr := os.Stat(configPath); statErr == nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
		// Config file not found, use defaults and env vars
	}

	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")

	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 4000)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("server.middleware_timeout", "120s")

	// Mongo
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "mindmesh")
	v.SetDefault("mongo.connect_timeout", "10s")

	// Redis
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	// Auth
	v.SetDefault("auth.issuer", "mindmesh")

	// Email
	v.SetDefault("email.from", "noreply@mindmesh.app")
	v.SetDefault("email.port", 587)
	v.SetDefault("email.frontend_url", "http://localhost:5173")

	// AI
	v.SetDefault("ai.default_provider", "gemini")
	v.SetDefault("ai.gemini.model", "gemini-1.5-pro")
	v.SetDefault("ai.openai.model", "gpt-4-turbo")

	// ElevenLabs
	v.SetDefault("elevenlabs.base_url", "https://api.elevenlabs.io/v1")
	v.SetDefault("elevenlabs.default_voice_id", "21m00Tcm4TlvDq8ikWAM")

	// Snowflake
	v.SetDefault("snowflake.schema", "PUBLIC")

	// Security
	v.SetDefault("security.rate_limit.requests_per_minute", 60)
	v.SetDefault("security.rate_limit.burst", 10)

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

func bindEnvVars(v *viper.Viper) {
	v.BindEnv("env", "ENV")

	v.BindEnv("mongo.uri", "MONGO_URI")

	v.BindEnv("redis.password", "REDIS_PASSWORD")

	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("auth.audience", "AUTH_AUDIENCE")

	v.BindEnv("email.from", "EMAIL_FROM")
	v.BindEnv("email.host", "EMAIL_HOST")
	v.BindEnv("email.port", "EMAIL_PORT")
	v.BindEnv("email.username", "EMAIL_USER")
	v.BindEnv("email.password", "EMAIL_PASSWORD")
	v.BindEnv("email.frontend_url", "FRONTEND_URL")

	v.BindEnv("ai.gemini.api_key", "GEMINI_API_KEY")
	v.BindEnv("ai.openai.api_key", "OPENAI_API_KEY")

	v.BindEnv("elevenlabs.api_key", "ELEVENLABS_API_KEY")

	v.BindEnv("snowflake.account", "SNOWFLAKE_ACCOUNT")
	v.BindEnv("snowflake.user", "SNOWFLAKE_USERNAME")
	v.BindEnv("snowflake.password", "SNOWFLAKE_PASSWORD")
	v.BindEnv("snowflake.warehouse", "SNOWFLAKE_WAREHOUSE")
	v.BindEnv("snowflake.database", "SNOWFLAKE_DATABASE")
	v.BindEnv("snowflake.schema", "SNOWFLAKE_SCHEMA")
	v.BindEnv("snowflake.role", "SNOWFLAKE_ROLE")
}
