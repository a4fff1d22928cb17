package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/civic-sense/civicsense-be/services/otp"
)

// OTPController serves phone verification. Delivery is mocked: the
// code is emitted to the server log instead of an SMS gateway.
type OTPController struct {
	Store *otp.Store
}

func (oc *OTPController) Send(c *gin.Context) {
	var input struct {
		Phone string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phone number is required"})
		return
	}

	code, err := oc.Store.Send(input.Phone)
	if err != nil {
		log.Println("Error generating OTP:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate OTP"})
		return
	}

	log.Printf("[SMS MOCK] OTP sent to %s: %s", input.Phone, code)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "OTP sent successfully"})
}

func (oc *OTPController) Verify(c *gin.Context) {
	var input struct {
		Phone string `json:"phone"`
		OTP   string `json:"otp"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Phone == "" || input.OTP == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phone and OTP are required"})
		return
	}

	switch err := oc.Store.Verify(input.Phone, input.OTP); {
	case errors.Is(err, otp.ErrNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No OTP found for this number. Please request a new one."})
	case errors.Is(err, otp.ErrExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "OTP has expired. Please request a new one."})
	case errors.Is(err, otp.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid OTP. Please try again."})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify OTP"})
	default:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "OTP verified successfully"})
	}
}
