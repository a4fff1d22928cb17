package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/civic-sense/civicsense-be/auth"
	"github.com/civic-sense/civicsense-be/controllers"
	"github.com/civic-sense/civicsense-be/middlewares"
)

// BlogRoutes sets up the announcement article routes. Reads are
// public, writes require a credential.
func BlogRoutes(r *gin.Engine, bc *controllers.BlogController, resolver *auth.Resolver) {
	blogs := r.Group("/api/blogs")
	{
		blogs.GET("", bc.List)
		blogs.GET("/:id", bc.Get)
		blogs.POST("", middlewares.RequireAuth(resolver), bc.Create)
		blogs.PUT("/:id", middlewares.RequireAuth(resolver), bc.Update)
		blogs.DELETE("/:id", middlewares.RequireAuth(resolver), bc.Delete)
	}
}
