package config

import (
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Storage  StorageConfig
	Backend  BackendConfig
	Planner  PlannerConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	LogLevel       string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled       bool
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	TTLSeconds    int
}

// StorageConfig points at the S3-compatible bucket that archives submitted purchase orders.
type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// Backend sources for inventory, sales, orders and notifications.
const (
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
)

type BaseURLs struct {
	Inventory     string
	Sales         string
	Orders        string
	Notifications string
}

type BackendConfig struct {
	UseMockBackend        bool
	Source                string
	BaseURLs              BaseURLs
	RequestTimeoutSeconds int
}

type PlannerConfig struct {
	ForecastDays       int
	SalesLookbackWeeks int
	BufferPolicy       string
}

var (
	once     sync.Once
	instance *Config
)

// Load reads the configuration once from the environment (and .env when present).
func Load() *Config {
	once.Do(func() {
		_ = godotenv.Load()
		instance = build(viper.New())
	})

	return instance
}

func build(v *viper.Viper) *Config {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_MODE", "debug")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SERVER_READ_TIMEOUT", 15)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	v.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "backoffice")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL_SECONDS", 60)
	v.SetDefault("STORAGE_ENABLED", false)
	v.SetDefault("STORAGE_BUCKET", "purchase-orders")
	v.SetDefault("STORAGE_REGION", "us-east-1")
	v.SetDefault("STORAGE_USE_SSL", true)
	v.SetDefault("BACKEND_USE_MOCK", false)
	v.SetDefault("BACKEND_SOURCE", SourceHTTP)
	v.SetDefault("BACKEND_REQUEST_TIMEOUT_SECONDS", 10)
	v.SetDefault("PLANNER_FORECAST_DAYS", 5)
	v.SetDefault("PLANNER_SALES_LOOKBACK_WEEKS", 4)
	v.SetDefault("PLANNER_BUFFER_POLICY", "preserve_manual")

	v.AutomaticEnv()

	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Mode:           v.GetString("SERVER_MODE"),
			LogLevel:       v.GetString("LOG_LEVEL"),
			ReadTimeout:    v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: v.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Cache: CacheConfig{
			Enabled:       v.GetBool("CACHE_ENABLED"),
			RedisURL:      v.GetString("REDIS_URL"),
			RedisHost:     v.GetString("REDIS_HOST"),
			RedisPort:     v.GetString("REDIS_PORT"),
			RedisPassword: v.GetString("REDIS_PASSWORD"),
			RedisDB:       v.GetInt("REDIS_DB"),
			TTLSeconds:    v.GetInt("CACHE_TTL_SECONDS"),
		},
		Storage: StorageConfig{
			Enabled:   v.GetBool("STORAGE_ENABLED"),
			Endpoint:  v.GetString("STORAGE_ENDPOINT"),
			AccessKey: v.GetString("STORAGE_ACCESS_KEY"),
			SecretKey: v.GetString("STORAGE_SECRET_KEY"),
			Bucket:    v.GetString("STORAGE_BUCKET"),
			Region:    v.GetString("STORAGE_REGION"),
			UseSSL:    v.GetBool("STORAGE_USE_SSL"),
		},
		Backend: BackendConfig{
			UseMockBackend: v.GetBool("BACKEND_USE_MOCK"),
			Source:         strings.ToLower(strings.TrimSpace(v.GetString("BACKEND_SOURCE"))),
			BaseURLs: BaseURLs{
				Inventory:     v.GetString("INVENTORY_BASE_URL"),
				Sales:         v.GetString("SALES_BASE_URL"),
				Orders:        v.GetString("ORDERS_BASE_URL"),
				Notifications: v.GetString("NOTIFICATIONS_BASE_URL"),
			},
			RequestTimeoutSeconds: v.GetInt("BACKEND_REQUEST_TIMEOUT_SECONDS"),
		},
		Planner: PlannerConfig{
			ForecastDays:       v.GetInt("PLANNER_FORECAST_DAYS"),
			SalesLookbackWeeks: v.GetInt("PLANNER_SALES_LOOKBACK_WEEKS"),
			BufferPolicy:       strings.ToLower(strings.TrimSpace(v.GetString("PLANNER_BUFFER_POLICY"))),
		},
	}
}
