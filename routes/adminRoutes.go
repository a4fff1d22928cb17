package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/civic-sense/civicsense-be/auth"
	"github.com/civic-sense/civicsense-be/controllers"
	"github.com/civic-sense/civicsense-be/middlewares"
)

// AdminRoutes sets up the municipal admin management routes
func AdminRoutes(r *gin.Engine, ac *controllers.AdminController, resolver *auth.Resolver) {
	admin := r.Group("/api/admin", middlewares.RequireAuth(resolver))
	{
		admin.POST("/municipal", ac.CreateMunicipal)
		admin.GET("/municipal", ac.ListMunicipal)
		admin.DELETE("/municipal/:id", ac.DeleteMunicipal)
	}
}
