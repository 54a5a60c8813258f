package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/francoluca35/comandas-multiples-sub008/internal/presentation/http/dto/response"
	"github.com/francoluca35/comandas-multiples-sub008/pkg/utils"
)

// TerminalAuth validates the terminal token issued by the venue's auth service
// and binds the acting terminal and employee to the request context.
func TerminalAuth(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateTerminalToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("terminal_id", claims.TerminalID)
		c.Set("employee_id", claims.EmployeeID)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// RequireRole restricts a route to terminals carrying one of the given roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get("role")
		if !exists {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		role, ok := roleVal.(string)
		if !ok {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		for _, required := range roles {
			if role == required {
				c.Next()
				return
			}
		}

		response.Forbidden(c, "Insufficient role privileges")
		c.Abort()
	}
}
