// README: Display language negotiation for localized error messages.
package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"toptransfer/internal/i18n"
)

const languageKey = "lang"

// Language picks the display language from ?lang= or Accept-Language.
func Language() gin.HandlerFunc {
	return func(c *gin.Context) {
		tag := i18n.Negotiate(c.Query("lang"), c.GetHeader("Accept-Language"))
		c.Set(languageKey, tag)
		c.Header("Content-Language", i18n.Lang(tag))
		c.Next()
	}
}

func LanguageFrom(c *gin.Context) language.Tag {
	if v, ok := c.Get(languageKey); ok {
		if tag, ok := v.(language.Tag); ok {
			return tag
		}
	}
	return i18n.Default
}
