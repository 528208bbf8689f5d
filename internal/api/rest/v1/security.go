package v1

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireSecret rejects requests whose Authorization header does not carry secret,
// either bare or as a bearer token. An empty secret lets every request through.
func RequireSecret(secret string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if secret == "" {
			ctx.Next()
			return
		}

		provided := strings.TrimSpace(ctx.GetHeader("Authorization"))
		if len(provided) > 7 && strings.EqualFold(provided[:7], "bearer ") {
			provided = strings.TrimSpace(provided[7:])
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "missing or invalid authorization"})
			return
		}
		ctx.Next()
	}
}
