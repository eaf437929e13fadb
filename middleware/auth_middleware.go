package middleware

import (
	"net/http"
	"strings"

	"bookings-api/domain"
	"bookings-api/dto"
	"bookings-api/logging"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// TokenVerifier valida un token y devuelve la identidad
type TokenVerifier interface {
	Authenticate(token string) (*domain.Principal, error)
}

// Authorizer decide si un rol puede usar una ruta
type Authorizer interface {
	Allow(role, path, action string) (bool, error)
}

// AuthMiddleware valida el JWT token en cada request
// Si el token es válido, guarda la identidad en el contexto
// Si no, devuelve error 401 (Unauthorized)
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Formato esperado: "Bearer <token>"
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "authorization header required")
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		principal, err := verifier.Authenticate(parts[1])
		if err != nil {
			logging.Ctx(c.Request.Context()).Debug().Err(err).Msg("Token rejected")
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set(principalKey, *principal)
		c.Next()
	}
}

// RequireCapability chequea con casbin que el rol pueda usar la ruta
// Se usa DESPUÉS de AuthMiddleware
func RequireCapability(authorizer Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok {
			abortUnauthorized(c, "authentication required")
			return
		}

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		allowed, err := authorizer.Allow(string(principal.Role), path, c.Request.Method)
		if err != nil {
			logging.Ctx(c.Request.Context()).Error().Err(err).Msg("Authorization check failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
				Error:   "internal_error",
				Message: "authorization check failed",
			})
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{
				Error:   "forbidden",
				Message: "role " + string(principal.Role) + " cannot access this resource",
			})
			return
		}

		c.Next()
	}
}

// PrincipalFrom devuelve la identidad que dejó AuthMiddleware
func PrincipalFrom(c *gin.Context) (domain.Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return domain.Principal{}, false
	}
	principal, ok := value.(domain.Principal)
	return principal, ok
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
		Error:   "unauthorized",
		Message: message,
	})
}
