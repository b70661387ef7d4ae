package User

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func abortUnauthorized(c *gin.Context, message, code string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": message,
		"code":  code,
	})
}

// AuthMiddleware accepts a Bearer JWT or the session cookie set at login,
// loads the user and stores it in the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var userID uint

		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
				abortUnauthorized(c, "invalid authorization header format", "INVALID_AUTH_FORMAT")
				return
			}
			id, ok := userFromToken(c, strings.TrimSpace(parts[1]))
			if !ok {
				return
			}
			userID = id
		} else if cookie, err := c.Cookie(settings.CookieName); err == nil && cookie != "" {
			if settings.Sessions != nil {
				id, err := settings.Sessions.Lookup(c.Request.Context(), cookie)
				if err != nil {
					code := "SESSION_EXPIRED"
					if !errors.Is(err, ErrSessionNotFound) {
						code = "SESSION_UNAVAILABLE"
					}
					abortUnauthorized(c, "session expired or invalid", code)
					return
				}
				userID = id
			} else {
				id, ok := userFromToken(c, cookie)
				if !ok {
					return
				}
				userID = id
			}
		} else {
			abortUnauthorized(c, "authentication credentials were not provided", "MISSING_AUTH")
			return
		}

		user, err := GetUserService().GetUserByID(userID)
		if err != nil {
			abortUnauthorized(c, "user not found", "USER_NOT_FOUND")
			return
		}

		c.Set("user_id", user.ID)
		c.Set("username", user.Username)
		c.Set("role", user.Role)
		c.Set("user", user)
		c.Next()
	}
}

func userFromToken(c *gin.Context, token string) (uint, bool) {
	claims, err := ValidateJWT(token)
	if err != nil {
		code := "INVALID_TOKEN"
		if errors.Is(err, ErrTokenExpired) {
			code = "TOKEN_EXPIRED"
		}
		abortUnauthorized(c, "invalid or expired token", code)
		return 0, false
	}
	id, err := userIDFromClaims(claims)
	if err != nil {
		abortUnauthorized(c, "invalid user id in token", "INVALID_USER_ID")
		return 0, false
	}
	return id, true
}

// RequireRoles rejects users whose role is not in the list.
func RequireRoles(roles ...UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get("role")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		userRole, _ := role.(UserRole)
		for _, r := range roles {
			if userRole == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "you do not have permission to perform this action"})
	}
}

// CurrentUserID reads the id stored by AuthMiddleware.
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// CurrentUser reads the user stored by AuthMiddleware.
func CurrentUser(c *gin.Context) (*UserModel, bool) {
	v, ok := c.Get("user")
	if !ok {
		return nil, false
	}
	u, ok := v.(*UserModel)
	return u, ok
}
