// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Images      ImageConfig
	AWS         AWSConfig
	Catalog     CatalogConfig
	Auth        AuthConfig
	I18n        I18nConfig
	Frontend    FrontendConfig
}

type FrontendConfig struct {
	AllowedOrigins []string
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
	RateLimit    bool
}

// DatabaseConfig.Store picks the catalog store: "postgres", or "memory" for a
// throwaway in-process catalog during local development.
type DatabaseConfig struct {
	Store        string
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

type JWTConfig struct {
	SecretKey      string
	AccessTokenTTL int // in hours
}

// ImageConfig selects and configures the image host. Cloudinary credentials
// (APIKey, APISecret) are only needed for deletes.
type ImageConfig struct {
	Driver             string
	CloudName          string
	UploadPreset       string
	APIKey             string
	APISecret          string
	APIBase            string
	BatchSize          int
	MaxSizeMB          int
	RequestTimeoutSecs int
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	S3Prefix        string
	CloudFrontURL   string
}

type CatalogConfig struct {
	Currency         string
	ExportFilePrefix string
	ExportCharset    string
}

type AuthConfig struct {
	UsersFile     string
	AdminUsername string
	AdminPassword string
}

type I18nConfig struct {
	DefaultLocale string
}

// Load reads the optional env file (".env" when envFile is empty) and then the
// process environment.
func Load(envFile ...string) (*Config, error) {
	// Load .env file if it exists
	godotenv.Load(envFile...)

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 60),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
			RateLimit:    getEnv("RATE_LIMIT_ENABLED", "true") != "false",
		},
		Database: DatabaseConfig{
			Store:        strings.ToLower(getEnv("CATALOG_STORE", "postgres")),
			Host:         getEnv("DB_HOST", ""),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "catalog"),
			SSLMode:      getEnv("DB_SSL_MODE", "require"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "warn"),
		},
		JWT: JWTConfig{
			SecretKey:      getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenTTL: getEnvAsInt("JWT_ACCESS_TTL", 12),
		},
		Images: ImageConfig{
			Driver:             strings.ToLower(getEnv("IMAGE_HOST_DRIVER", "cloudinary")),
			CloudName:          getEnv("CLOUDINARY_CLOUD_NAME", ""),
			UploadPreset:       getEnv("CLOUDINARY_UPLOAD_PRESET", ""),
			APIKey:             getEnv("CLOUDINARY_API_KEY", ""),
			APISecret:          getEnv("CLOUDINARY_API_SECRET", ""),
			APIBase:            getEnv("CLOUDINARY_API_BASE", "https://api.cloudinary.com/v1_1"),
			BatchSize:          getEnvAsInt("IMAGE_UPLOAD_BATCH_SIZE", 3),
			MaxSizeMB:          getEnvAsInt("IMAGE_MAX_SIZE_MB", 10),
			RequestTimeoutSecs: getEnvAsInt("IMAGE_REQUEST_TIMEOUT", 60),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "ap-south-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        getEnv("AWS_S3_BUCKET", "catalog-images"),
			S3Prefix:        getEnv("AWS_S3_PREFIX", "products"),
			CloudFrontURL:   getEnv("AWS_CLOUDFRONT_URL", ""),
		},
		Catalog: CatalogConfig{
			Currency:         strings.ToUpper(getEnv("CATALOG_CURRENCY", "BDT")),
			ExportFilePrefix: getEnv("EXPORT_FILE_PREFIX", "putimach"),
			ExportCharset:    getEnv("EXPORT_CHARSET", "utf-8"),
		},
		Auth: AuthConfig{
			UsersFile:     getEnv("USERS_FILE", ""),
			AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
			AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		},
		I18n: I18nConfig{
			DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),
		},
		Frontend: FrontendConfig{
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.JWT.SecretKey == defaultJWTSecret && c.Environment == "production" {
		return fmt.Errorf("JWT secret key must be changed in production")
	}

	if c.Images.Driver != "cloudinary" && c.Images.Driver != "s3" {
		return fmt.Errorf("unknown IMAGE_HOST_DRIVER: %s", c.Images.Driver)
	}

	switch c.Database.Store {
	case "", "postgres":
	case "memory":
		if c.Environment == "production" {
			return fmt.Errorf("CATALOG_STORE=memory is not allowed in production")
		}
	default:
		return fmt.Errorf("unknown CATALOG_STORE: %s", c.Database.Store)
	}

	if c.Images.BatchSize < 1 {
		return fmt.Errorf("IMAGE_UPLOAD_BATCH_SIZE must be at least 1")
	}

	if c.Auth.UsersFile == "" && c.Auth.AdminPassword == "" && c.Environment == "production" {
		return fmt.Errorf("either USERS_FILE or ADMIN_PASSWORD is required in production")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
