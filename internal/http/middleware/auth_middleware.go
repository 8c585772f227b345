package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/you/notesvc/domain"
)

// AuthMiddleware creates the bearer-token guard. A valid token is
// resolved all the way to a live user record; downstream handlers read
// the user from the context and never touch the token again.
func AuthMiddleware(tokenSvc domain.TokenService, userRepo domain.UserRepository) gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token"})
			c.Abort()
			return
		}

		tokenParts := strings.SplitN(authHeader, " ", 2)
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" || tokenParts[1] == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token"})
			c.Abort()
			return
		}

		claims, err := tokenSvc.ValidateToken(tokenParts[1])
		if err != nil {
			switch err {
			case domain.ErrTokenExpired:
				c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, token expired"})
			default:
				c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, token failed"})
			}
			c.Abort()
			return
		}

		user, err := userRepo.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, user not found"})
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Set("user_id", fmt.Sprintf("%d", user.ID)) // string form for Casbin
		c.Set("user_role", claims.Role)

		c.Next()
	})
}

// CurrentUser pulls the authenticated user set by AuthMiddleware out of
// the context.
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok
}
