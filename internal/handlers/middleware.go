package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ludo-service/internal/auth"
	"ludo-service/internal/models"
	"ludo-service/pkg/common"
)

func getBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// AuthRequired validates the bearer token and stores the caller's identity on
// the context.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := getBearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				common.NewErrorResponse("Authorization token required", nil, http.StatusUnauthorized))
			return
		}
		claims, err := auth.ParseToken(s.JWTSecret, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				common.NewErrorResponse("Invalid or expired token", nil, http.StatusUnauthorized))
			return
		}
		c.Set("userId", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// AdminRequired runs after AuthRequired and gates admin routes.
func (s *Server) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden,
				common.NewErrorResponse("Admin access required", nil, http.StatusForbidden))
			return
		}
		c.Next()
	}
}

func currentUserId(c *gin.Context) int {
	return c.GetInt("userId")
}
