// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/gearguard-backend/internal/i18n"
	"github.com/javajoker/gearguard-backend/internal/utils"
)

func I18nMiddleware(defaultLang string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(utils.ContextKeyLang, negotiateLanguage(c.GetHeader("Accept-Language"), defaultLang))
		c.Next()
	}
}

// negotiateLanguage picks the first supported entry of an Accept-Language
// header such as "zh-TW,zh;q=0.9,en;q=0.8".
func negotiateLanguage(header, defaultLang string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.Split(part, ";")[0])
		// Convert common language codes
		switch tag {
		case "zh-TW", "zh-Hant", "zh_TW", "zh":
			tag = "zh_TW"
		case "en-US", "en-GB":
			tag = "en"
		}
		if tag != "" && i18n.IsSupported(tag) {
			return tag
		}
	}
	return defaultLang
}
