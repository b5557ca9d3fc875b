package main

import (
	"strings"

	"vidtube/models"

	"github.com/gin-gonic/gin"
)

const ctxUserKey = "user"

// extractAccessToken looks for the bearer token in the accessToken cookie
// first, then the Authorization header.
func extractAccessToken(c *gin.Context) string {
	if v, err := c.Cookie("accessToken"); err == nil && v != "" {
		return v
	}
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// hydrateUser loads the identity referenced by a verified access token,
// leaving the password hash and refresh token out of the loaded record.
func (a *App) hydrateUser(c *gin.Context, raw string) (*models.User, error) {
	claims, err := a.tokens.VerifyAccess(raw)
	if err != nil {
		return nil, errUnauthenticated("invalid access token")
	}
	id, err := claims.UserID()
	if err != nil {
		return nil, errUnauthenticated("invalid access token")
	}
	var user models.User
	if err := a.db.Omit("password_hash", "refresh_token").First(&user, id).Error; err != nil {
		// token references a deleted identity
		return nil, errUnauthenticated("invalid access token")
	}
	return &user, nil
}

// requireAuth gates a route: extract, verify, hydrate, attach. Any failure
// halts the pipeline with a uniform 401; refresh is never attempted here.
func (a *App) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractAccessToken(c)
		if raw == "" {
			fail(c, errUnauthenticated("unauthorized request"))
			return
		}
		user, err := a.hydrateUser(c, raw)
		if err != nil {
			fail(c, err)
			return
		}
		c.Set(ctxUserKey, user)
		c.Next()
	}
}

// optionalAuth attaches the identity when a valid token is presented but
// never rejects; world-readable routes use it for owner-aware responses.
func (a *App) optionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := extractAccessToken(c); raw != "" {
			if user, err := a.hydrateUser(c, raw); err == nil {
				c.Set(ctxUserKey, user)
			}
		}
		c.Next()
	}
}

// currentUser returns the identity attached by requireAuth/optionalAuth, or
// nil for anonymous callers.
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}
