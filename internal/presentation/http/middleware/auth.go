package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/brewpos-api/internal/application/service"
	"github.com/sangkips/brewpos-api/internal/domain/enum"
	infraRepo "github.com/sangkips/brewpos-api/internal/infrastructure/repository"
	"github.com/sangkips/brewpos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/brewpos-api/pkg/utils"
)

// Gin context keys set by AuthMiddleware
const (
	ActorKey       = "actor"
	PermissionsKey = "permissions"
)

// AuthMiddleware creates a JWT authentication middleware. It stores the
// authenticated staff member as the actor and scopes the request to their store.
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
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

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ActorKey, ActorFromClaims(claims))
		c.Set(PermissionsKey, claims.Permissions)

		ctx := infraRepo.WithStore(c.Request.Context(), claims.StoreID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// ActorFromClaims builds the acting staff member from token claims
func ActorFromClaims(claims *utils.JWTClaims) service.Actor {
	return service.Actor{
		StaffID:     claims.StaffID,
		StoreID:     claims.StoreID,
		Name:        claims.Name,
		Role:        enum.StaffRole(claims.Role),
		Permissions: claims.Permissions,
	}
}

// GetActor returns the authenticated staff member
func GetActor(c *gin.Context) (service.Actor, bool) {
	v, exists := c.Get(ActorKey)
	if !exists {
		return service.Actor{}, false
	}
	actor, ok := v.(service.Actor)
	return actor, ok
}

// RequirePermission creates a middleware that requires a specific permission
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		permissions, exists := c.Get(PermissionsKey)
		if !exists {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		staffPermissions, ok := permissions.([]string)
		if !ok {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		hasPermission := false
		for _, p := range staffPermissions {
			if p == permission {
				hasPermission = true
				break
			}
		}

		if !hasPermission {
			response.Forbidden(c, "You do not have permission to perform this action")
			c.Abort()
			return
		}

		c.Next()
	}
}
