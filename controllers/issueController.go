package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/civic-sense/civicsense-be/auth"
	"github.com/civic-sense/civicsense-be/middlewares"
	"github.com/civic-sense/civicsense-be/models"
	"github.com/civic-sense/civicsense-be/queue"
	"github.com/civic-sense/civicsense-be/services"
	"github.com/civic-sense/civicsense-be/store"
)

// IssueController serves the issue intake and lifecycle endpoints
type IssueController struct {
	Issues     store.IssueStore
	Classifier *services.Classifier
	Images     *services.ImageStore
	Events     *queue.Publisher
}

// Create handles the citizen reporting flow. Classification is
// best-effort; a missing pincode is rejected before anything is
// persisted because the district code drives all downstream
// jurisdiction filtering.
func (ic *IssueController) Create(c *gin.Context) {
	var input struct {
		Title       string   `json:"title" binding:"required,max=200"`
		Description string   `json:"description" binding:"required"`
		Location    string   `json:"location" binding:"required,max=200"`
		Pincode     string   `json:"pincode"`
		Category    string   `json:"category"`
		ImageData   string   `json:"image_data"`
		LocationLat *float64 `json:"location_lat"`
		LocationLng *float64 `json:"location_lng"`
		Name        string   `json:"name"`
		Phone       string   `json:"phone"`
		Aadhar      string   `json:"aadhar"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	districtCode := strings.TrimSpace(input.Pincode)
	if districtCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Pincode is required"})
		return
	}

	reporterID := auth.AnonymousReporterID
	if principal := middlewares.GetPrincipal(c); principal != nil && principal.UserID != "" {
		reporterID = principal.UserID
	}

	classification := ic.Classifier.Classify(c.Request.Context(), input.Description, input.ImageData, input.Category)
	imageURL := ic.Images.Store(c.Request.Context(), input.ImageData)

	now := time.Now()
	issue := &models.Issue{
		Title:          input.Title,
		Description:    input.Description,
		Address:        input.Location + ", Pincode: " + districtCode,
		LocationLat:    input.LocationLat,
		LocationLng:    input.LocationLng,
		AICategory:     classification.Category,
		AIConfidence:   classification.Confidence,
		Priority:       classification.Priority,
		Status:         models.StatusOpen,
		DistrictCode:   districtCode,
		ReporterID:     reporterID,
		ReporterName:   input.Name,
		ReporterPhone:  input.Phone,
		ReporterAadhar: input.Aadhar,
		ImageURL:       imageURL,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := ic.Issues.Insert(c.Request.Context(), issue)
	if err != nil {
		log.Println("Error inserting issue:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save issue to database"})
		return
	}

	ic.Events.Publish("issue.created", created)

	c.JSON(http.StatusCreated, gin.H{"message": "Issue reported successfully", "issue": created})
}

// List returns issues visible to the authenticated principal. Master
// admins see everything; municipal admins see their districts only,
// and an admin without districts sees an empty list rather than
// everything.
func (ic *IssueController) List(c *gin.Context) {
	principal := middlewares.GetPrincipal(c)

	scope, allowed := auth.ListIssuesScope(principal)
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: admin access required"})
		return
	}

	if !scope.All && len(scope.Districts) == 0 {
		c.JSON(http.StatusOK, []models.Issue{})
		return
	}

	filter := store.IssueFilter{}
	if !scope.All {
		filter.DistrictCodes = scope.Districts
	}

	issues, err := ic.Issues.Find(c.Request.Context(), filter)
	if err != nil {
		log.Println("Error fetching issues:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch issues"})
		return
	}

	c.JSON(http.StatusOK, issues)
}

// ListByCitizen returns every issue reported with the given phone
// number, newest first. The phone number itself is the capability; no
// credential is required.
func (ic *IssueController) ListByCitizen(c *gin.Context) {
	phone := c.Param("phone")

	issues, err := ic.Issues.Find(c.Request.Context(), store.IssueFilter{ReporterPhone: phone})
	if err != nil {
		log.Println("Error fetching citizen issues:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch citizen issues"})
		return
	}

	c.JSON(http.StatusOK, issues)
}

// Get returns a single issue after checking it lies within the
// principal's jurisdiction.
func (ic *IssueController) Get(c *gin.Context) {
	issue, err := ic.Issues.FindByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}
	if err != nil {
		log.Println("Error fetching issue:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch issue details"})
		return
	}

	principal := middlewares.GetPrincipal(c)
	if !auth.CanReadIssue(principal, issue.DistrictCode) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: Issue not in your jurisdiction"})
		return
	}

	c.JSON(http.StatusOK, issue)
}

// Update applies a partial lifecycle change (status, priority,
// assignment) to an issue. Admin roles only; not jurisdiction-scoped.
func (ic *IssueController) Update(c *gin.Context) {
	principal := middlewares.GetPrincipal(c)
	if !auth.CanUpdateIssue(principal) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: admin access required"})
		return
	}

	var input struct {
		Status                 *string `json:"status"`
		Priority               *string `json:"priority"`
		AssignedMunicipalityID *string `json:"assigned_municipality_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var update models.IssueUpdate
	if input.Status != nil {
		status, ok := models.ValidStatus(*input.Status)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		update.Status = &status
	}
	if input.Priority != nil {
		priority, ok := models.NormalizePriority(*input.Priority)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority"})
			return
		}
		update.Priority = &priority
	}
	update.AssignedMunicipalityID = input.AssignedMunicipalityID

	if update.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No update fields provided"})
		return
	}

	updated, err := ic.Issues.Update(c.Request.Context(), c.Param("id"), update)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}
	if err != nil {
		log.Println("Error updating issue:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update issue"})
		return
	}

	ic.Events.Publish("issue.updated", updated)

	c.JSON(http.StatusOK, gin.H{"message": "Issue updated successfully", "issue": updated})
}

// Delete removes an issue permanently. Master admins only.
func (ic *IssueController) Delete(c *gin.Context) {
	principal := middlewares.GetPrincipal(c)
	if !auth.CanDeleteIssue(principal) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: Only Master Admins can delete issues"})
		return
	}

	deleted, err := ic.Issues.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}
	if err != nil {
		log.Println("Error deleting issue:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete issue"})
		return
	}

	ic.Events.Publish("issue.deleted", deleted)

	c.JSON(http.StatusOK, gin.H{"message": "Issue deleted successfully", "issue": deleted})
}
