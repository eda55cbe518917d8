package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Auth      AuthConfig `mapstructure:"auth"`
	Storage   StorageConfig
	Tracing   TracingConfig `mapstructure:"tracing"`
	Redis     RedisConfig
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// Flag de runtime (vem da linha de comando, não do arquivo)
	MigrateOnly bool `mapstructure:"-"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

// GeminiConfig configura o colaborador de IA generativa. O modelo de
// visão atende o microscópio virtual; o de texto, biblioteca e quiz.
type GeminiConfig struct {
	APIKey      string `mapstructure:"api_key"`
	TextModel   string `mapstructure:"text_model"`
	VisionModel string `mapstructure:"vision_model"`
}

// AuthConfig define o provedor de autenticação de alunos e a senha do admin.
// provider: "supabase" delega ao GoTrue; "local" usa contas no MySQL.
type AuthConfig struct {
	Provider      string `mapstructure:"provider"`
	AdminPassword string `mapstructure:"admin_password"`
	SupabaseURL   string `mapstructure:"supabase_url"`
	SupabaseKey   string `mapstructure:"supabase_key"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("HISTOMED")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "HISTOMED_DATABASE_HOST")
	viper.BindEnv("database.port", "HISTOMED_DATABASE_PORT")
	viper.BindEnv("database.user", "HISTOMED_DATABASE_USER")
	viper.BindEnv("database.password", "HISTOMED_DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "HISTOMED_DATABASE_NAME")

	// JWT
	viper.BindEnv("jwt.secret", "HISTOMED_JWT_SECRET")

	// Redis
	viper.BindEnv("redis.host", "HISTOMED_REDIS_HOST")
	viper.BindEnv("redis.port", "HISTOMED_REDIS_PORT")
	viper.BindEnv("redis.password", "HISTOMED_REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.mode", "HISTOMED_SERVER_MODE")

	// Gemini
	viper.BindEnv("gemini.api_key", "HISTOMED_GEMINI_API_KEY")
	viper.BindEnv("gemini.text_model", "HISTOMED_GEMINI_TEXT_MODEL")
	viper.BindEnv("gemini.vision_model", "HISTOMED_GEMINI_VISION_MODEL")

	// Auth
	viper.BindEnv("auth.provider", "HISTOMED_AUTH_PROVIDER")
	viper.BindEnv("auth.admin_password", "HISTOMED_ADMIN_PASSWORD")
	viper.BindEnv("auth.supabase_url", "HISTOMED_SUPABASE_URL")
	viper.BindEnv("auth.supabase_key", "HISTOMED_SUPABASE_KEY")

	// Storage
	viper.BindEnv("storage.type", "HISTOMED_STORAGE_TYPE")
	viper.BindEnv("storage.minio_endpoint", "HISTOMED_MINIO_ENDPOINT")
	viper.BindEnv("storage.minio_access_key", "HISTOMED_MINIO_ACCESS_KEY")
	viper.BindEnv("storage.minio_secret_key", "HISTOMED_MINIO_SECRET_KEY")
	viper.BindEnv("storage.minio_bucket", "HISTOMED_MINIO_BUCKET")

	// Tracing
	viper.BindEnv("tracing.enabled", "HISTOMED_TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "HISTOMED_TRACING_COLLECTOR_ENDPOINT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	if cfg.Gemini.TextModel == "" {
		cfg.Gemini.TextModel = "gemini-3-flash-preview"
	}
	if cfg.Gemini.VisionModel == "" {
		cfg.Gemini.VisionModel = "gemini-2.5-flash-image"
	}
	if cfg.Auth.Provider == "" {
		cfg.Auth.Provider = "supabase"
	}

	// Em modo release, segredos fracos derrubam o processo já na partida
	if cfg.Server.Mode == "release" {
		if len(cfg.JWT.Secret) < 32 {
			return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
		}
		if cfg.Auth.AdminPassword == "" {
			return nil, fmt.Errorf("auth.admin_password must be set in release mode")
		}
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return &cfg, nil
}
