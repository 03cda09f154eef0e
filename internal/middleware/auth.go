package middleware

import (
	"net/http"

	"tgpcet-it/internal/auth"
	"tgpcet-it/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentNav(c).SignedIn {
			c.Redirect(http.StatusFound, auth.LoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := map[models.UserRole]struct{}{}
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		sess := sessions.Default(c)
		nav := auth.NavFromSession(sess)
		if !nav.SignedIn {
			c.Redirect(http.StatusFound, auth.LoginPath)
			c.Abort()
			return
		}

		if _, ok := roleSet[nav.Role]; !ok {
			c.String(http.StatusForbidden, "access denied")
			c.Abort()
			return
		}
		c.Next()
	}
}
