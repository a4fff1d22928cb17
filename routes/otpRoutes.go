package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/civic-sense/civicsense-be/controllers"
)

// OTPRoutes sets up the phone verification routes
func OTPRoutes(r *gin.Engine, oc *controllers.OTPController) {
	otp := r.Group("/api/otp")
	{
		otp.POST("/send", oc.Send)
		otp.POST("/verify", oc.Verify)
	}
}
