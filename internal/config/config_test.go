package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("IMAGE_HOST_DRIVER", "")
	t.Setenv("DB_HOST", "")

	cfg, err := Load("testdata/missing.env")
	require.NoError(t, err)

	assert.Equal(t, "cloudinary", cfg.Images.Driver)
	assert.Equal(t, 3, cfg.Images.BatchSize)
	assert.Equal(t, "BDT", cfg.Catalog.Currency)
	assert.Equal(t, "utf-8", cfg.Catalog.ExportCharset)
	assert.False(t, cfg.Database.Configured())
	assert.Equal(t, "postgres", cfg.Database.Store)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("IMAGE_HOST_DRIVER", "S3")
	t.Setenv("IMAGE_UPLOAD_BATCH_SIZE", "5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load("testdata/missing.env")
	require.NoError(t, err)

	assert.True(t, cfg.Database.Configured())
	assert.Contains(t, cfg.Database.DSN(), "host=db.internal")
	assert.Equal(t, "s3", cfg.Images.Driver)
	assert.Equal(t, 5, cfg.Images.BatchSize)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Frontend.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Environment: "production",
		JWT:         JWTConfig{SecretKey: defaultJWTSecret},
		Images:      ImageConfig{Driver: "cloudinary", BatchSize: 3},
		Auth:        AuthConfig{AdminPassword: "x"},
	}
	assert.Error(t, cfg.Validate())

	cfg.JWT.SecretKey = "rotated"
	assert.NoError(t, cfg.Validate())

	cfg.Images.Driver = "ftp"
	assert.Error(t, cfg.Validate())

	cfg.Images.Driver = "s3"
	cfg.Images.BatchSize = 0
	assert.Error(t, cfg.Validate())
}

func TestStoreSelection(t *testing.T) {
	t.Setenv("CATALOG_STORE", "Memory")

	cfg, err := Load("testdata/missing.env")
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Database.Store)

	cfg.Environment = "production"
	cfg.Auth.AdminPassword = "x"
	cfg.JWT.SecretKey = "rotated"
	assert.Error(t, cfg.Validate())

	cfg.Database.Store = "postgres"
	assert.NoError(t, cfg.Validate())

	cfg.Database.Store = "sqlite"
	assert.Error(t, cfg.Validate())
}
