package middleware

import (
	"net/http"

	"agendamento/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

// AdminKeyMiddleware accepts the sync key from the "key" query parameter,
// the X-Admin-Key header or an "admin_key" field of a JSON body.
func AdminKeyMiddleware(adminKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		presented := c.Query("key")
		if presented == "" {
			presented = c.GetHeader("X-Admin-Key")
		}
		if presented == "" && c.Request.ContentLength != 0 {
			var body struct {
				AdminKey string `json:"admin_key"`
			}
			if err := c.ShouldBindBodyWith(&body, binding.JSON); err == nil {
				presented = body.AdminKey
			}
		}

		if !utils.SecretMatches(adminKey, presented) {
			requestLogger(c).Warn("Unauthorized admin access", zap.String("ip", getClientIP(c)))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Chave administrativa inválida"})
			return
		}
		c.Set("isAdmin", true)
		c.Next()
	}
}
