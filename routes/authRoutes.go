package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/civic-sense/civicsense-be/controllers"
)

// AuthRoutes sets up the authentication routes
func AuthRoutes(r *gin.Engine, ac *controllers.AuthController) {
	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/login", ac.Login)
	}
}
