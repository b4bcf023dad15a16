// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/catalog-admin/internal/i18n"
)

// I18nMiddleware picks the response language from Accept-Language. A "lang"
// query parameter wins over the header.
func I18nMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := c.Query("lang")
		if lang == "" {
			lang = c.GetHeader("Accept-Language")
		}

		// Handle cases like "bn-BD,bn;q=0.9,en;q=0.8"
		firstLang := strings.TrimSpace(strings.Split(strings.Split(lang, ",")[0], ";")[0])
		switch strings.ToLower(firstLang) {
		case "bn", "bn-bd", "bn-in", "bn_bd":
			lang = "bn"
		case "en", "en-us", "en-gb":
			lang = "en"
		default:
			lang = i18n.DefaultLang()
		}

		c.Set("lang", lang)
		c.Next()
	}
}
