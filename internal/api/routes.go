package api

import "github.com/gin-gonic/gin"

// SetupRoutes registers the page routes. Health and metrics routes are
// added by the server builder.
func SetupRoutes(router *gin.Engine, pages *PageHandler) {
	page := router.Group("/page")
	page.POST("/", pages.Create)
	page.HEAD("/", pages.Create)
	page.GET("/:id/", pages.Get)
	page.HEAD("/:id/", pages.Get)
}
