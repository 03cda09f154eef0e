package middleware

import (
	"tgpcet-it/internal/auth"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const navKey = "Nav"

// InjectUser кладёт в контекст навигацию текущего посетителя.
// Данные берутся из сессии, хранилище не трогаем.
func InjectUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		c.Set(navKey, auth.NavFromSession(sess))
		c.Next()
	}
}

func CurrentNav(c *gin.Context) auth.Nav {
	if v, ok := c.Get(navKey); ok {
		if nav, ok := v.(auth.Nav); ok {
			return nav
		}
	}
	return auth.NavFromSession(sessions.Default(c))
}
