package middleware

import (
	"context"
	"net/http"
	"strings"

	"shoppos/internal/apierror"
	"shoppos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

const (
	ClaimsKey = "claims"
)

// JWTClaims are the custom claims embedded in every token.
type JWTClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Typ      string `json:"typ"`
	jwt.RegisteredClaims
}

// JWTAuth validates the Bearer access token on every protected route.
// Refresh tokens are only accepted by /auth/refresh.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("authentication required"))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid || claims.Typ != service.TokenAccess {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("invalid or expired token"))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireRole rejects requests whose JWT role is not in the allowed list.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil || !allowed[claims.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("insufficient permissions"))
			return
		}
		c.Next()
	}
}

// PageChecker is satisfied by service.PermissionService.
type PageChecker interface {
	HasAccess(ctx context.Context, role, pagePath string) (bool, error)
}

// RequirePage gates a route group behind the role_permissions row for page.
// Admin always passes.
func RequirePage(perms PageChecker, page string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("authentication required"))
			return
		}
		ok, err := perms.HasAccess(c.Request.Context(), claims.Role, page)
		if err != nil {
			log.Error().Err(err).Str("role", claims.Role).Str("page", page).Msg("permission lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.New("internal server error"))
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("no access to "+page))
			return
		}
		c.Next()
	}
}

// GetClaims is a helper to retrieve typed claims from the Gin context.
// Returns nil outside JWTAuth-protected routes.
func GetClaims(c *gin.Context) *JWTClaims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*JWTClaims)
	return claims
}
