// internal/middleware/auth.go
package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/gearguard-backend/internal/i18n"
	"github.com/javajoker/gearguard-backend/internal/models"
	"github.com/javajoker/gearguard-backend/internal/policy"
	"github.com/javajoker/gearguard-backend/internal/store"
	"github.com/javajoker/gearguard-backend/internal/utils"
)

// UserFinder loads the caller's record for role checks.
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthRequired accepts a bearer token and binds its email to the context.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := utils.GetLangFromContext(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthRequired))
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidToken))
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(strings.TrimSpace(parts[1]))
		if err != nil {
			key := i18n.KeyAuthInvalidToken
			if errors.Is(err, utils.ErrTokenExpired) {
				key = i18n.KeyAuthTokenExpired
			}
			utils.UnauthorizedResponse(c, i18n.T(lang, key))
			c.Abort()
			return
		}

		c.Set(utils.ContextKeyEmail, models.NormalizeEmail(claims.Email))
		c.Next()
	}
}

// RequireRole loads the caller and admits them only when the policy allows
// the given role. It must run after AuthRequired.
func RequireRole(users UserFinder, role models.Role) gin.HandlerFunc {
	requirement := policy.RequireRole(role)

	return func(c *gin.Context) {
		lang := utils.GetLangFromContext(c)
		email, ok := utils.GetEmailFromContext(c)
		if !ok {
			utils.UnauthorizedResponse(c, "")
			c.Abort()
			return
		}

		user, err := users.FindByEmail(c.Request.Context(), email)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			logrus.WithError(err).WithField("email", email).Error("Failed to load user for role check")
			utils.InternalErrorResponse(c, "")
			c.Abort()
			return
		}

		decision := policy.Evaluate(user, requirement)
		if !decision.Allowed {
			logrus.WithFields(logrus.Fields{
				"email":  email,
				"role":   role,
				"reason": decision.Reason,
				"path":   c.FullPath(),
			}).Warn("Access denied")
			utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyAuthRoleRequired, role))
			c.Abort()
			return
		}

		c.Set(utils.ContextKeyUser, user)
		c.Next()
	}
}

// RequireOwner admits callers whose token email equals the route parameter.
func RequireOwner(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, _ := utils.GetEmailFromContext(c)

		if decision := policy.AuthorizeOwner(email, c.Param(param)); !decision.Allowed {
			utils.ForbiddenResponse(c, "")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the record loaded by RequireRole.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	if value, exists := c.Get(utils.ContextKeyUser); exists {
		if user, ok := value.(*models.User); ok && user != nil {
			return user, true
		}
	}
	return nil, false
}
