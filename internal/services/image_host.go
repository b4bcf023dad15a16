// internal/services/image_host.go
package services

import (
	"fmt"

	"github.com/javajoker/catalog-admin/internal/config"
)

// NewImageHost builds the host named by IMAGE_HOST_DRIVER.
func NewImageHost(cfg *config.Config) (ImageHost, error) {
	switch cfg.Images.Driver {
	case "cloudinary":
		return NewCloudinaryHost(cfg.Images), nil
	case "s3":
		return NewS3ImageHost(cfg.AWS)
	default:
		return nil, fmt.Errorf("unknown IMAGE_HOST_DRIVER: %s", cfg.Images.Driver)
	}
}
