// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAccessDenied           = "auth.access_denied"

	// Users
	KeyUserCreated = "user.created"
	KeyUserDeleted = "user.deleted"

	// Categories
	KeyCategoryCreated = "category.created"
	KeyCategoryUpdated = "category.updated"
	KeyCategoryDeleted = "category.deleted"

	// Products
	KeyProductCreated          = "product.created"
	KeyProductUpdated          = "product.updated"
	KeyProductDeleted          = "product.deleted"
	KeyProductPartiallyWritten = "product.partially_written"
	KeyBulkDeleted             = "product.bulk_deleted"
	KeyBulkStockUpdated        = "product.bulk_stock_updated"

	// Images
	KeyImagesUploaded      = "image.uploaded"
	KeyImagesPartialUpload = "image.partial_upload"
	KeyImageDeleted        = "image.deleted"
	KeyImageNotDeleted     = "image.not_deleted"

	// Store
	KeyBackendUnavailable = "backend.unavailable"

	// Validation
	KeyValidationInvalid = "validation.invalid"

	KeyRateLimited = "rate_limited"
)
