package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/fx"
)

// Storage modes
const (
	StorageModeBackend = "backend"
	StorageModeS3      = "s3"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Session  SessionConfig  `mapstructure:"session"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Document DocumentConfig `mapstructure:"document"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type AppConfig struct {
	Name         string `mapstructure:"name"`
	Port         int    `mapstructure:"port"`
	Env          string `mapstructure:"env"`
	AllowOrigins string `mapstructure:"allow_origins"` // comma-separated, "*" disables credentialed CORS
}

// BackendConfig points at the contract backend REST API.
type BackendConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"` // seconds in the file
}

type SessionConfig struct {
	CookieName      string        `mapstructure:"cookie_name"`
	TTL             time.Duration `mapstructure:"ttl"`             // seconds in the file, 0 = no expiry
	RefreshBackoff  time.Duration `mapstructure:"refresh_backoff"` // milliseconds in the file
	RefreshAttempts int           `mapstructure:"refresh_attempts"`
	ExpirySkew      time.Duration `mapstructure:"expiry_skew"` // seconds in the file
}

type StorageConfig struct {
	Mode          string        `mapstructure:"mode"` // "backend" or "s3"
	Bucket        string        `mapstructure:"bucket"`
	Region        string        `mapstructure:"region"`
	Endpoint      string        `mapstructure:"endpoint"` // optional, e.g. LocalStack
	AccessKeyID   string        `mapstructure:"access_key_id"`
	SecretKey     string        `mapstructure:"secret_access_key"`
	PresignExpiry time.Duration `mapstructure:"presign_expiry"` // seconds in the file
	UploadTimeout time.Duration `mapstructure:"upload_timeout"` // seconds in the file
}

// IsS3 returns true when the gateway presigns directly against the bucket
func (s *StorageConfig) IsS3() bool {
	return s.Mode == StorageModeS3
}

type DocumentConfig struct {
	HandleDir    string        `mapstructure:"handle_dir"`    // Directory for temporary display handles
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"` // seconds in the file
	MaxBytes     int64         `mapstructure:"max_bytes"`
}

type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"` // seconds in the file
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var Module = fx.Module("config",
	fx.Provide(NewConfig),
)

func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.normalize()
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "Contract Workspace")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.env", "development")
	v.SetDefault("app.allow_origins", "*")
	v.SetDefault("backend.timeout", 30)
	v.SetDefault("session.cookie_name", "session_id")
	v.SetDefault("session.refresh_backoff", 200)
	v.SetDefault("session.refresh_attempts", 5)
	v.SetDefault("session.expiry_skew", 30)
	v.SetDefault("storage.mode", StorageModeBackend)
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.presign_expiry", 3600)
	v.SetDefault("storage.upload_timeout", 60)
	v.SetDefault("document.fetch_timeout", 60)
	v.SetDefault("document.max_bytes", 50<<20)
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.cache_ttl", 3600)
	v.SetDefault("logging.level", "info")
}

// normalize converts the plain numbers of the config file into durations
func (c *Config) normalize() {
	c.Backend.Timeout = c.Backend.Timeout * time.Second
	c.Session.TTL = c.Session.TTL * time.Second
	c.Session.RefreshBackoff = c.Session.RefreshBackoff * time.Millisecond
	c.Session.ExpirySkew = c.Session.ExpirySkew * time.Second
	c.Storage.PresignExpiry = c.Storage.PresignExpiry * time.Second
	c.Storage.UploadTimeout = c.Storage.UploadTimeout * time.Second
	c.Document.FetchTimeout = c.Document.FetchTimeout * time.Second
	c.Redis.CacheTTL = c.Redis.CacheTTL * time.Second

	c.Backend.BaseURL = strings.TrimRight(c.Backend.BaseURL, "/")
	if c.Storage.Mode == "" {
		c.Storage.Mode = StorageModeBackend
	}
	if c.Session.RefreshAttempts <= 0 {
		c.Session.RefreshAttempts = 1
	}
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
