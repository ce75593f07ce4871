package middleware

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/iloilo-msme/produkta/internal/config"
	"github.com/iloilo-msme/produkta/internal/models"
	"github.com/iloilo-msme/produkta/internal/observability"
	"github.com/iloilo-msme/produkta/internal/services"
	"go.uber.org/zap"
)

// Context keys set by the auth middleware
const (
	ClaimsKey = "claims"
	ActorKey  = "actor"
)

const (
	defaultAdminRole      = "produkta-admin"
	defaultSuperAdminRole = "produkta-superadmin"
)

// AuthMiddleware extracts JWT claims from the request
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		// Signatures are verified by the ingress, only the claims are read here
		claims, err := extractClaims(parts[1])
		if err != nil {
			observability.Logger().Warn("failed to extract claims from token", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

func extractClaims(token string) (*models.JWTClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid token format")
	}

	claimsBytes, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("failed to decode claims: %w", err)
	}

	var claims models.JWTClaims
	if err := json.Unmarshal(claimsBytes, &claims); err != nil {
		return nil, fmt.Errorf("failed to parse claims: %w", err)
	}

	return &claims, nil
}

// RequireAdmin admits sector admins and super admins and stores the resolved Actor
func RequireAdmin() gin.HandlerFunc {
	return requireActor(func(a services.Actor) bool { return true }, "Admin privileges required")
}

// RequireSuperAdmin admits super admins only
func RequireSuperAdmin() gin.HandlerFunc {
	return requireActor(func(a services.Actor) bool { return a.SuperAdmin }, "Super admin privileges required")
}

func requireActor(allowed func(services.Actor) bool, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, exists := c.Get(ClaimsKey)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Claims not found"})
			c.Abort()
			return
		}

		claims, ok := raw.(*models.JWTClaims)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid claims type"})
			c.Abort()
			return
		}

		adminRole, superAdminRole := roles()
		actor, ok := services.ActorFromClaims(claims, adminRole, superAdminRole)
		if !ok || !allowed(actor) {
			c.JSON(http.StatusForbidden, gin.H{"error": message})
			c.Abort()
			return
		}

		c.Set(ActorKey, actor)
		c.Next()
	}
}

// ActorFromContext returns the Actor stored by RequireAdmin or RequireSuperAdmin
func ActorFromContext(c *gin.Context) (services.Actor, bool) {
	raw, exists := c.Get(ActorKey)
	if !exists {
		return services.Actor{}, false
	}
	actor, ok := raw.(services.Actor)
	return actor, ok
}

func roles() (string, string) {
	adminRole, superAdminRole := defaultAdminRole, defaultSuperAdminRole
	if cfg := config.AppConfig; cfg != nil {
		if cfg.AdminRole != "" {
			adminRole = cfg.AdminRole
		}
		if cfg.SuperAdminRole != "" {
			superAdminRole = cfg.SuperAdminRole
		}
	}
	return adminRole, superAdminRole
}
