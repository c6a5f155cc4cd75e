package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ServeSite serves the generated output directory for any request no API route matched.
func ServeSite(router *gin.Engine, root string) {
	files := http.FileServer(http.Dir(root))

	router.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		files.ServeHTTP(c.Writer, c.Request)
	})
}
