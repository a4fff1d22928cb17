package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/civic-sense/civicsense-be/auth"
)

// AuthController exchanges credentials for a bearer token
type AuthController struct {
	Authenticator auth.Authenticator
}

func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity, token, err := ac.Authenticator.Authenticate(c.Request.Context(), input.Email, input.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		log.Println("Error authenticating:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	role, _ := identity.Metadata["role"].(string)
	districtCode := identity.Metadata["district_code"]
	fullName, _ := identity.Metadata["full_name"].(string)

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":            identity.ID,
			"email":         identity.Email,
			"full_name":     fullName,
			"role":          role,
			"district_code": districtCode,
		},
	})
}
