// internal/utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/catalog-admin/internal/apperr"
	"github.com/javajoker/catalog-admin/internal/i18n"
)

type APIResponse struct {
	Success  bool        `json:"success"`
	Data     interface{} `json:"data,omitempty"`
	Error    *APIError   `json:"error,omitempty"`
	Warnings []string    `json:"warnings,omitempty"`
}

type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

// SuccessWithWarnings is a success whose caller should still be told that part
// of the work was dropped, e.g. images that failed to upload.
func SuccessWithWarnings(c *gin.Context, data interface{}, warnings ...string) {
	c.JSON(http.StatusOK, APIResponse{
		Success:  true,
		Data:     data,
		Warnings: warnings,
	})
}

func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func BadRequestResponse(c *gin.Context, message string, details interface{}) {
	lang := GetLangFromContext(c)
	if message == "" {
		message = i18n.T(lang, i18n.KeyValidationInvalid, "request")
	}
	ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", message, details)
}

func UnauthorizedResponse(c *gin.Context, message string) {
	lang := GetLangFromContext(c)
	if message == "" {
		message = i18n.T(lang, i18n.KeyAuthRequired)
	}
	ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", message, nil)
}

func ForbiddenResponse(c *gin.Context, message string) {
	lang := GetLangFromContext(c)
	if message == "" {
		message = i18n.T(lang, i18n.KeyAccessDenied)
	}
	ErrorResponse(c, http.StatusForbidden, "FORBIDDEN", message, nil)
}

func ValidationErrorResponse(c *gin.Context, errors []ValidationError) {
	lang := GetLangFromContext(c)
	message := i18n.T(lang, i18n.KeyValidationInvalid, "input")
	ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", message, errors)
}

var errorCodes = map[apperr.Kind]string{
	apperr.BackendUnavailable: "BACKEND_UNAVAILABLE",
	apperr.Validation:         "VALIDATION_ERROR",
	apperr.PartiallyWritten:   "PARTIALLY_WRITTEN",
	apperr.Unauthorized:       "UNAUTHORIZED",
	apperr.Forbidden:          "FORBIDDEN",
	apperr.NotFound:           "NOT_FOUND",
}

var errorKeys = map[apperr.Kind]string{
	apperr.BackendUnavailable: i18n.KeyBackendUnavailable,
	apperr.PartiallyWritten:   i18n.KeyProductPartiallyWritten,
}

// ErrorFromApp writes err in the response envelope. The status comes from the
// error kind; causes are logged, never sent.
func ErrorFromApp(c *gin.Context, err error) {
	ae := apperr.Wrap(err)
	status := apperr.HTTPStatus(ae)

	code, ok := errorCodes[ae.Kind]
	if !ok {
		code = "INTERNAL_ERROR"
	}

	message := apperr.PublicMessage(ae)
	if key, ok := errorKeys[ae.Kind]; ok {
		message = i18n.T(GetLangFromContext(c), key)
	}

	entry := logrus.WithFields(logrus.Fields{
		"kind":   ae.Kind,
		"path":   c.Request.URL.Path,
		"status": status,
	})
	if status >= http.StatusInternalServerError {
		entry.WithError(err).Error("Request failed")
	} else {
		entry.WithError(err).Debug("Request rejected")
	}

	var details interface{}
	if len(ae.Fields) > 0 {
		details = ae.Fields
	}
	ErrorResponse(c, status, code, message, details)
}

func GetLangFromContext(c *gin.Context) string {
	if lang, exists := c.Get("lang"); exists {
		if langStr, ok := lang.(string); ok {
			return langStr
		}
	}
	return i18n.DefaultLang()
}

func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if userID, exists := c.Get("user_id"); exists {
		if userIDStr, ok := userID.(string); ok {
			return userIDStr, true
		}
	}
	return "", false
}

func GetRoleFromContext(c *gin.Context) (string, bool) {
	if role, exists := c.Get("role"); exists {
		if roleStr, ok := role.(string); ok {
			return roleStr, true
		}
	}
	return "", false
}
