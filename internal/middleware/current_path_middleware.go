package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/GTDGit/storefront/pkg/storefront"
)

// CurrentPathHeader carries the UI route the user is on.
const CurrentPathHeader = "X-Current-Path"

const currentPathKey = "current_path"

// CurrentPathMiddleware moves the UI route from CurrentPathHeader into the
// request context, where the API client reads it to build login redirects
// and to skip them on auth pages.
func CurrentPathMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.GetHeader(CurrentPathHeader)
		if path == "" {
			c.Next()
			return
		}
		c.Set(currentPathKey, path)
		c.Request = c.Request.WithContext(storefront.WithCurrentPath(c.Request.Context(), path))
		c.Next()
	}
}
