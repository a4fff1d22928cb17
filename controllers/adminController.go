package controllers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/civic-sense/civicsense-be/auth"
	"github.com/civic-sense/civicsense-be/middlewares"
	"github.com/civic-sense/civicsense-be/models"
	"github.com/civic-sense/civicsense-be/store"
)

// AdminController manages municipal admin accounts. Every operation is
// master-admin only.
type AdminController struct {
	Users    store.UserStore
	Provider auth.IdentityProvider
}

// CreateMunicipal provisions a municipal admin: an identity record
// first, then the profile row carrying role and district assignment.
// There is no compensating delete when the second write fails; the
// orphaned identity id is logged for manual cleanup.
func (ac *AdminController) CreateMunicipal(c *gin.Context) {
	principal := middlewares.GetPrincipal(c)
	if !auth.CanManageAdmins(principal) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: Master Admin access required"})
		return
	}

	var input struct {
		Email        string `json:"email"`
		Password     string `json:"password"`
		FullName     string `json:"full_name"`
		DistrictCode string `json:"district_code"`
	}
	if err := c.ShouldBindJSON(&input); err != nil ||
		input.Email == "" || input.Password == "" || input.FullName == "" || input.DistrictCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	metadata := map[string]interface{}{
		"role":          string(auth.RoleMunicipalAdmin),
		"full_name":     input.FullName,
		"district_code": input.DistrictCode,
	}

	identity, err := ac.Provider.CreateIdentity(c.Request.Context(), input.Email, input.Password, metadata)
	if err != nil {
		log.Println("Error creating identity:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	user := &models.User{
		ID:           identity.ID,
		FullName:     input.FullName,
		Role:         string(auth.RoleMunicipalAdmin),
		DistrictCode: input.DistrictCode,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := ac.Users.Insert(c.Request.Context(), user); err != nil {
		log.Printf("Error inserting admin profile, identity %s is orphaned: %v", identity.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create municipal admin profile"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Municipal Admin created successfully",
		"user": gin.H{
			"id":            identity.ID,
			"email":         input.Email,
			"full_name":     input.FullName,
			"district_code": input.DistrictCode,
		},
	})
}

// ListMunicipal returns all municipal admin profiles, newest first.
func (ac *AdminController) ListMunicipal(c *gin.Context) {
	principal := middlewares.GetPrincipal(c)
	if !auth.CanManageAdmins(principal) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: Master Admin access required"})
		return
	}

	users, err := ac.Users.FindByRole(c.Request.Context(), string(auth.RoleMunicipalAdmin))
	if err != nil {
		log.Println("Error fetching municipal admins:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch municipal admins"})
		return
	}

	c.JSON(http.StatusOK, users)
}

// DeleteMunicipal removes an admin's identity and profile row.
func (ac *AdminController) DeleteMunicipal(c *gin.Context) {
	principal := middlewares.GetPrincipal(c)
	if !auth.CanManageAdmins(principal) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: Master Admin access required"})
		return
	}

	id := c.Param("id")

	if err := ac.Provider.DeleteIdentity(c.Request.Context(), id); err != nil {
		log.Println("Error deleting identity:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ac.Users.Delete(c.Request.Context(), id); err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Println("Error deleting admin profile:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete municipal admin profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Municipal Admin deleted successfully"})
}
