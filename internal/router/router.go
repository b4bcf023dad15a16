// internal/router/router.go
package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/catalog-admin/internal/config"
	"github.com/javajoker/catalog-admin/internal/export"
	"github.com/javajoker/catalog-admin/internal/handlers"
	"github.com/javajoker/catalog-admin/internal/metrics"
	"github.com/javajoker/catalog-admin/internal/middleware"
	"github.com/javajoker/catalog-admin/internal/repository"
	"github.com/javajoker/catalog-admin/internal/services"
	"github.com/javajoker/catalog-admin/internal/utils"
)

// Services is everything the HTTP layer calls into. One store and one image
// host are shared by all of them.
type Services struct {
	Auth       *services.AuthService
	Users      *services.UserService
	Categories *services.CategoryService
	Products   *services.ProductService
	Bulk       *services.BulkService
	Images     *services.ImageService
	Exporter   *export.Exporter
}

func NewServices(store repository.CatalogStore, roster *services.Roster, host services.ImageHost, cfg *config.Config) (*Services, error) {
	exporter, err := export.NewExporter(cfg.Catalog.ExportFilePrefix, cfg.Catalog.ExportCharset, cfg.Catalog.Currency)
	if err != nil {
		return nil, fmt.Errorf("failed to set up export: %w", err)
	}

	return &Services{
		Auth:       services.NewAuthService(roster, cfg),
		Users:      services.NewUserService(roster),
		Categories: services.NewCategoryService(store),
		Products:   services.NewProductService(store, cfg.Catalog.Currency),
		Bulk:       services.NewBulkService(store),
		Images:     services.NewImageService(host, cfg.Images.BatchSize, cfg.Images.MaxSizeMB),
		Exporter:   exporter,
	}, nil
}

func Initialize(svc *Services, cfg *config.Config) *gin.Engine {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(svc.Auth)
	userHandler := handlers.NewUserHandler(svc.Users)
	categoryHandler := handlers.NewCategoryHandler(svc.Categories)
	productHandler := handlers.NewProductHandler(svc.Products, svc.Bulk, svc.Exporter)
	imageHandler := handlers.NewImageHandler(svc.Images)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()
	r.MaxMultipartMemory = int64(cfg.Images.MaxSizeMB) << 20

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.AllowedOrigins))
	r.Use(middleware.I18nMiddleware())
	if cfg.Server.RateLimit {
		r.Use(middleware.GeneralRateLimit())
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		if cfg.Server.RateLimit {
			auth.Use(middleware.AuthRateLimit())
		}
		{
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
		}

		protected := v1.Group("")
		protected.Use(middleware.AuthRequired())

		// User routes
		users := protected.Group("/users")
		users.Use(middleware.AdminRequired())
		{
			users.GET("", userHandler.ListUsers)
			users.POST("", userHandler.CreateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
		}

		// Category routes
		categories := protected.Group("/categories")
		{
			categories.GET("", categoryHandler.ListCategories)
			categories.POST("", categoryHandler.CreateCategory)
			categories.PUT("/:id", categoryHandler.UpdateCategory)
			categories.DELETE("/:id", categoryHandler.DeleteCategory)
		}

		// Product routes
		products := protected.Group("/products")
		{
			products.GET("", productHandler.GetProducts)
			products.GET("/export", productHandler.Export)
			products.GET("/:id", productHandler.GetProduct)
			products.POST("", productHandler.CreateProduct)
			products.PUT("/:id", productHandler.UpdateProduct)
			products.DELETE("/:id", productHandler.DeleteProduct)
			products.POST("/:id/images/move", productHandler.MoveImage)
			products.POST("/:id/images/reorder", productHandler.ReorderImage)
			products.POST("/bulk/delete", productHandler.BulkDelete)
			products.POST("/bulk/stock", productHandler.BulkStock)
		}

		// Image routes
		images := protected.Group("/images")
		{
			if cfg.Server.RateLimit {
				images.POST("", middleware.UploadRateLimit(), imageHandler.Upload)
			} else {
				images.POST("", imageHandler.Upload)
			}
			images.DELETE("", imageHandler.Delete)
		}
	}

	return r
}
