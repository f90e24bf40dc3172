package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/sameera474/buildvault-backend/internal/db"
	"github.com/sameera474/buildvault-backend/internal/models"
	"github.com/sameera474/buildvault-backend/internal/rbac"
)

// Context keys set by the middleware chain.
const (
	ctxUserID  = "user_id"
	ctxEmail   = "email"
	ctxRole    = "role"
	ctxProfile = "profile"
	ctxCompany = "company_id"
)

// requestContext derives a bounded context from the request.
func requestContext(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), timeout)
}

// requestContextBackground is for side effects that should outlive the
// request, like notification sends.
func requestContextBackground(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// AuthMiddleware validates JWT bearer tokens and stores the claims.
// It does not touch the database; profile resolution happens in
// RequireProfile so unauthenticated requests never reach it.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "Authorization header required",
				Message: "Please provide a valid authorization token",
			})
			c.Abort()
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "Invalid authorization format",
				Message: "Authorization header must be in format 'Bearer <token>'",
			})
			c.Abort()
			return
		}

		tokenString := tokenParts[1]

		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "Server not configured",
				Message: "JWT secret missing",
			})
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "Invalid token",
				Message: "The provided token is invalid or expired",
			})
			c.Abort()
			return
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if v, ok := claims[ctxUserID].(string); ok {
				c.Set(ctxUserID, v)
			}
			if v, ok := claims[ctxEmail].(string); ok {
				c.Set(ctxEmail, v)
			}
		}

		if c.GetString(ctxUserID) == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "Invalid token",
				Message: "Token is missing the user_id claim",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireProfile resolves the caller's profile and tenant. A valid
// token without a resolvable active profile is an authentication
// failure; the request aborts before any entity operation runs.
func (h *Handler) RequireProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.Profiles == nil {
			c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
				Error:   "Service unavailable",
				Message: "Database not available",
			})
			c.Abort()
			return
		}

		ctx, cancel := requestContext(c, 5*time.Second)
		defer cancel()

		profile, err := h.Profiles.GetByUserID(ctx, c.GetString(ctxUserID))
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				c.JSON(http.StatusUnauthorized, models.ErrorResponse{
					Error:   "Profile not found",
					Message: "No active profile is associated with this account",
				})
				c.Abort()
				return
			}
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "Profile lookup failed",
				Message: err.Error(),
			})
			c.Abort()
			return
		}

		c.Set(ctxProfile, profile)
		c.Set(ctxRole, profile.Role)
		c.Set(ctxCompany, profile.CompanyID)

		h.Profiles.TouchActivity(ctx, profile.UserID, time.Now().UTC())

		c.Next()
	}
}

// currentProfile returns the profile resolved by RequireProfile.
func currentProfile(c *gin.Context) *models.Profile {
	p, _ := c.Get(ctxProfile)
	profile, _ := p.(*models.Profile)
	return profile
}

// currentRole returns the caller's parsed role.
func currentRole(c *gin.Context) rbac.Role {
	return rbac.ParseRole(c.GetString(ctxRole))
}

// RequireRole allows only callers whose role is in the allow-list.
func RequireRole(roles ...rbac.Role) gin.HandlerFunc {
	allowed := make(map[rbac.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		if !allowed[currentRole(c)] {
			c.JSON(http.StatusForbidden, models.ErrorResponse{
				Error:   "Access denied",
				Message: "Your role is not permitted to access this resource",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequirePermission allows callers holding at least one of the listed
// permissions (ANY semantics, matching the guard default).
func RequirePermission(perms ...rbac.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rbac.HasAnyPermission(currentRole(c), perms...) {
			c.JSON(http.StatusForbidden, models.ErrorResponse{
				Error:   "Permission denied",
				Message: "You do not have permission to perform this action",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAllPermissions allows callers holding every listed permission.
func RequireAllPermissions(perms ...rbac.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rbac.HasAllPermissions(currentRole(c), perms...) {
			c.JSON(http.StatusForbidden, models.ErrorResponse{
				Error:   "Permission denied",
				Message: "You do not have permission to perform this action",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireSuperAdmin gates the administrative functions. The flag comes
// from the resolved profile, never from a token claim.
func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile := currentProfile(c)
		if profile == nil || !profile.IsSuperAdmin {
			c.JSON(http.StatusForbidden, models.ErrorResponse{
				Error:   "Super admin access required",
				Message: "This operation requires platform administrator privileges",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin gates company-administration functions: super admins or
// tenant admins pass.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile := currentProfile(c)
		if profile == nil {
			c.JSON(http.StatusForbidden, models.ErrorResponse{
				Error:   "Admin access required",
				Message: "This operation requires administrator privileges",
			})
			c.Abort()
			return
		}
		if profile.IsSuperAdmin || rbac.ParseRole(profile.Role) == rbac.RoleAdmin {
			c.Next()
			return
		}
		c.JSON(http.StatusForbidden, models.ErrorResponse{
			Error:   "Admin access required",
			Message: "This operation requires administrator privileges",
		})
		c.Abort()
	}
}

// SubscriptionGuard rejects tenants whose subscription has lapsed and
// whose trial is over. Super admins bypass the gate.
func (h *Handler) SubscriptionGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile := currentProfile(c)
		if profile == nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "Profile not found",
				Message: "No active profile is associated with this account",
			})
			c.Abort()
			return
		}
		if profile.IsSuperAdmin {
			c.Next()
			return
		}

		ctx, cancel := requestContext(c, 5*time.Second)
		defer cancel()

		company, err := h.Companies.GetByID(ctx, profile.CompanyID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "Company lookup failed",
				Message: err.Error(),
			})
			c.Abort()
			return
		}
		if !company.SubscriptionCurrent(time.Now()) {
			c.JSON(http.StatusPaymentRequired, models.ErrorResponse{
				Error:   "Subscription required",
				Message: "Your trial has ended. Please activate a subscription to continue.",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
