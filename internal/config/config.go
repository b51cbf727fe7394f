package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	StorageMySQL     = "mysql"
	StorageFirestore = "firestore"

	MediaCloudinary = "cloudinary"
	MediaS3         = "s3"
)

type Config struct {
	App        AppConfig        `toml:"app"`
	Auth       AuthConfig       `toml:"auth"`
	Storage    StorageConfig    `toml:"storage"`
	MySQL      MySQLConfig      `toml:"mysql"`
	Firestore  FirestoreConfig  `toml:"firestore"`
	Media      MediaConfig      `toml:"media"`
	Cloudinary CloudinaryConfig `toml:"cloudinary"`
	S3         S3Config         `toml:"s3"`
	Redis      RedisConfig      `toml:"redis"`
	RabbitMQ   RabbitMQConfig   `toml:"rabbitmq"`
}

type AppConfig struct {
	Name              string `toml:"name"`
	Env               string `toml:"env"`
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	GinMode           string `toml:"gin_mode"`
	LogLevel          string `toml:"log_level"`
	LogFormat         string `toml:"log_format"`
	ExposeErrorDetail bool   `toml:"expose_error_detail"`
}

type AuthConfig struct {
	JWTSecret           string `toml:"jwt_secret"`
	JWTExpireMinute     int    `toml:"jwt_expire_minute"`
	BcryptCost          int    `toml:"bcrypt_cost"`
	RequireAuthOnCreate bool   `toml:"require_auth_on_create"`
}

type StorageConfig struct {
	Driver string `toml:"driver"`
}

type MySQLConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	DB       string `toml:"db"`
	Params   string `toml:"params"`
}

type FirestoreConfig struct {
	ProjectID       string `toml:"project_id"`
	CredentialsFile string `toml:"credentials_file"`
}

type MediaConfig struct {
	Provider       string `toml:"provider"`
	Folder         string `toml:"folder"`
	MaxUploadMB    int    `toml:"max_upload_mb"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	AsyncDelete    bool   `toml:"async_delete"`
}

type CloudinaryConfig struct {
	CloudName string `toml:"cloud_name"`
	APIKey    string `toml:"api_key"`
	APISecret string `toml:"api_secret"`
}

type S3Config struct {
	Endpoint  string `toml:"endpoint"`
	Region    string `toml:"region"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Bucket    string `toml:"bucket"`
	PublicURL string `toml:"public_url"`
}

type RedisConfig struct {
	Enabled            bool   `toml:"enabled"`
	Addr               string `toml:"addr"`
	Password           string `toml:"password"`
	DB                 int    `toml:"db"`
	CategoryTTLSeconds int    `toml:"category_ttl_seconds"`
}

type RabbitMQConfig struct {
	URL               string `toml:"url"`
	MediaCleanupQueue string `toml:"media_cleanup_queue"`
}

func Load() (*Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load(getEnv("ENV_FILE", ".env"))

	cfg := defaultConfig()

	configPath := getEnv("CONFIG_FILE", "configs/config.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file failed: %w", err)
		}
	}

	overrideByEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		errs = append(errs, errors.New("auth.jwt_secret must not be empty"))
	}
	switch c.Storage.Driver {
	case StorageMySQL:
	case StorageFirestore:
		if c.Firestore.ProjectID == "" {
			errs = append(errs, errors.New("firestore.project_id is required for the firestore driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}
	switch c.Media.Provider {
	case MediaCloudinary, MediaS3:
	default:
		errs = append(errs, fmt.Errorf("unknown media provider %q", c.Media.Provider))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid app port %d", c.App.Port))
	}
	if c.Media.AsyncDelete && c.RabbitMQ.URL == "" {
		errs = append(errs, errors.New("rabbitmq.url is required when media.async_delete is on"))
	}
	return errors.Join(errs...)
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		c.MySQL.User,
		c.MySQL.Password,
		c.MySQL.Host,
		c.MySQL.Port,
		c.MySQL.DB,
		c.MySQL.Params,
	)
}

func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Media.MaxUploadMB) << 20
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:              "fastcart-api",
			Env:               "dev",
			Host:              "0.0.0.0",
			Port:              4000,
			GinMode:           "debug",
			LogLevel:          "info",
			LogFormat:         "text",
			ExposeErrorDetail: true,
		},
		Auth: AuthConfig{
			JWTSecret:       "change-me-in-production",
			JWTExpireMinute: 0,
			BcryptCost:      10,
		},
		Storage: StorageConfig{
			Driver: StorageMySQL,
		},
		MySQL: MySQLConfig{
			Host:     "127.0.0.1",
			Port:     3306,
			User:     "root",
			Password: "",
			DB:       "fastcart",
			Params:   "parseTime=true&loc=Local&charset=utf8mb4",
		},
		Media: MediaConfig{
			Provider:       MediaCloudinary,
			Folder:         "fastcart",
			MaxUploadMB:    5,
			TimeoutSeconds: 30,
		},
		S3: S3Config{
			Region: "us-east-1",
		},
		Redis: RedisConfig{
			Addr:               "127.0.0.1:6379",
			CategoryTTLSeconds: 60,
		},
		RabbitMQ: RabbitMQConfig{
			URL:               "",
			MediaCleanupQueue: "media.cleanup",
		},
	}
}

func overrideByEnv(cfg *Config) {
	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)
	cfg.App.Host = getEnv("APP_HOST", cfg.App.Host)
	cfg.App.Port = getEnvAsInt("APP_PORT", cfg.App.Port)
	cfg.App.Port = getEnvAsInt("PORT", cfg.App.Port)
	cfg.App.GinMode = getEnv("GIN_MODE", cfg.App.GinMode)
	cfg.App.LogLevel = getEnv("LOG_LEVEL", cfg.App.LogLevel)
	cfg.App.LogFormat = getEnv("LOG_FORMAT", cfg.App.LogFormat)
	cfg.App.ExposeErrorDetail = getEnvAsBool("EXPOSE_ERROR_DETAIL", cfg.App.ExposeErrorDetail)

	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Auth.JWTExpireMinute = getEnvAsInt("JWT_EXPIRE_MINUTE", cfg.Auth.JWTExpireMinute)
	cfg.Auth.BcryptCost = getEnvAsInt("BCRYPT_COST", cfg.Auth.BcryptCost)
	cfg.Auth.RequireAuthOnCreate = getEnvAsBool("REQUIRE_AUTH_ON_CREATE", cfg.Auth.RequireAuthOnCreate)

	cfg.Storage.Driver = strings.ToLower(getEnv("STORAGE_DRIVER", cfg.Storage.Driver))

	cfg.MySQL.Host = getEnv("MYSQL_HOST", cfg.MySQL.Host)
	cfg.MySQL.Port = getEnvAsInt("MYSQL_PORT", cfg.MySQL.Port)
	cfg.MySQL.User = getEnv("MYSQL_USER", cfg.MySQL.User)
	cfg.MySQL.Password = getEnv("MYSQL_PASSWORD", cfg.MySQL.Password)
	cfg.MySQL.DB = getEnv("MYSQL_DB", cfg.MySQL.DB)
	cfg.MySQL.Params = getEnv("MYSQL_PARAMS", cfg.MySQL.Params)

	cfg.Firestore.ProjectID = getEnv("FIRESTORE_PROJECT_ID", cfg.Firestore.ProjectID)
	cfg.Firestore.CredentialsFile = getEnv("FIRESTORE_CREDENTIALS_FILE", cfg.Firestore.CredentialsFile)

	cfg.Media.Provider = strings.ToLower(getEnv("MEDIA_PROVIDER", cfg.Media.Provider))
	cfg.Media.Folder = getEnv("MEDIA_FOLDER", cfg.Media.Folder)
	cfg.Media.MaxUploadMB = getEnvAsInt("MEDIA_MAX_UPLOAD_MB", cfg.Media.MaxUploadMB)
	cfg.Media.TimeoutSeconds = getEnvAsInt("MEDIA_TIMEOUT_SECONDS", cfg.Media.TimeoutSeconds)
	cfg.Media.AsyncDelete = getEnvAsBool("MEDIA_ASYNC_DELETE", cfg.Media.AsyncDelete)

	cfg.Cloudinary.CloudName = getEnv("CLOUDINARY_CLOUD_NAME", cfg.Cloudinary.CloudName)
	cfg.Cloudinary.APIKey = getEnv("CLOUDINARY_API_KEY", cfg.Cloudinary.APIKey)
	cfg.Cloudinary.APISecret = getEnv("CLOUDINARY_API_SECRET", cfg.Cloudinary.APISecret)

	cfg.S3.Endpoint = getEnv("S3_ENDPOINT", cfg.S3.Endpoint)
	cfg.S3.Region = getEnv("S3_REGION", cfg.S3.Region)
	cfg.S3.AccessKey = getEnv("S3_ACCESS_KEY", cfg.S3.AccessKey)
	cfg.S3.SecretKey = getEnv("S3_SECRET_KEY", cfg.S3.SecretKey)
	cfg.S3.Bucket = getEnv("S3_BUCKET", cfg.S3.Bucket)
	cfg.S3.PublicURL = getEnv("S3_PUBLIC_URL", cfg.S3.PublicURL)

	cfg.Redis.Enabled = getEnvAsBool("REDIS_ENABLED", cfg.Redis.Enabled)
	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.CategoryTTLSeconds = getEnvAsInt("REDIS_CATEGORY_TTL_SECONDS", cfg.Redis.CategoryTTLSeconds)

	cfg.RabbitMQ.URL = getEnv("RABBITMQ_URL", cfg.RabbitMQ.URL)
	cfg.RabbitMQ.MediaCleanupQueue = getEnv("RABBITMQ_MEDIA_CLEANUP_QUEUE", cfg.RabbitMQ.MediaCleanupQueue)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
