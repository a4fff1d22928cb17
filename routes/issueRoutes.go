package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/civic-sense/civicsense-be/auth"
	"github.com/civic-sense/civicsense-be/controllers"
	"github.com/civic-sense/civicsense-be/middlewares"
)

// IssueRoutes sets up the issue routes. The rate limiter is optional
// and only mounted when Redis is configured.
func IssueRoutes(r *gin.Engine, ic *controllers.IssueController, resolver *auth.Resolver, limiter gin.HandlerFunc) {
	issues := r.Group("/api/issues")
	{
		createChain := []gin.HandlerFunc{middlewares.OptionalAuth(resolver)}
		if limiter != nil {
			createChain = append(createChain, limiter)
		}
		createChain = append(createChain, ic.Create)

		issues.POST("", createChain...)
		issues.GET("", middlewares.RequireAuth(resolver), ic.List)
		issues.GET("/citizen/:phone", ic.ListByCitizen)
		issues.GET("/:id", middlewares.RequireAuth(resolver), ic.Get)
		issues.PATCH("/:id", middlewares.RequireAuth(resolver), ic.Update)
		issues.DELETE("/:id", middlewares.RequireAuth(resolver), ic.Delete)
	}
}
