package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invently_backend/internal/handlers"
)

// RegisterRoutes wires every handler group under /api/v1. The
// authRequired middleware is built once in the app wiring and shared
// by all protected groups.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	authRequired gin.HandlerFunc,
) {
	ginRouter.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Home page")
	})

	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api, authRequired)
		appHandlers.UserHandler.RegisterRoutes(api, authRequired)
		appHandlers.ProductHandler.RegisterRoutes(api, authRequired)
		appHandlers.ContactHandler.RegisterRoutes(api, authRequired)
	}
}
