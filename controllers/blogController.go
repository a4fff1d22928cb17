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

const (
	defaultBlogExcerpt  = "Click to read more..."
	defaultBlogImage    = "https://images.unsplash.com/photo-1449824913935-59a10b8d2000?w=600&h=400&fit=crop"
	defaultBlogCategory = "Announcements"
	defaultBlogReadTime = "5 min read"
)

// BlogController serves public announcement articles. Reads are
// public; writes are master-admin only.
type BlogController struct {
	Blogs store.BlogStore
}

func (bc *BlogController) List(c *gin.Context) {
	blogs, err := bc.Blogs.Find(c.Request.Context())
	if err != nil {
		log.Println("Error fetching blogs:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch blogs"})
		return
	}
	c.JSON(http.StatusOK, blogs)
}

func (bc *BlogController) Get(c *gin.Context) {
	blog, err := bc.Blogs.FindByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Blog not found"})
		return
	}
	if err != nil {
		log.Println("Error fetching blog:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch blog article"})
		return
	}
	c.JSON(http.StatusOK, blog)
}

func (bc *BlogController) Create(c *gin.Context) {
	principal := middlewares.GetPrincipal(c)
	if !auth.CanManageBlogs(principal) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: Only Master Admins can create blogs."})
		return
	}

	var input struct {
		Title      string `json:"title"`
		Excerpt    string `json:"excerpt"`
		Content    string `json:"content"`
		ImageURL   string `json:"image_url"`
		Category   string `json:"category"`
		AuthorName string `json:"author_name"`
		ReadTime   string `json:"read_time"`
	}
	if err := c.ShouldBindJSON(&input); err != nil ||
		input.Title == "" || input.Content == "" || input.AuthorName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title, content, and author are required."})
		return
	}

	if input.Excerpt == "" {
		input.Excerpt = defaultBlogExcerpt
	}
	if input.ImageURL == "" {
		input.ImageURL = defaultBlogImage
	}
	if input.Category == "" {
		input.Category = defaultBlogCategory
	}
	if input.ReadTime == "" {
		input.ReadTime = defaultBlogReadTime
	}

	now := time.Now()
	blog := &models.Blog{
		Title:      input.Title,
		Excerpt:    input.Excerpt,
		Content:    input.Content,
		ImageURL:   input.ImageURL,
		Category:   input.Category,
		AuthorName: input.AuthorName,
		ReadTime:   input.ReadTime,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	created, err := bc.Blogs.Insert(c.Request.Context(), blog)
	if err != nil {
		log.Println("Error inserting blog:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create blog post"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Blog published successfully", "blog": created})
}

func (bc *BlogController) Update(c *gin.Context) {
	principal := middlewares.GetPrincipal(c)
	if !auth.CanManageBlogs(principal) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: Only Master Admins can edit blogs."})
		return
	}

	var input struct {
		Title      *string `json:"title"`
		Excerpt    *string `json:"excerpt"`
		Content    *string `json:"content"`
		ImageURL   *string `json:"image_url"`
		Category   *string `json:"category"`
		AuthorName *string `json:"author_name"`
		ReadTime   *string `json:"read_time"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := models.BlogUpdate{
		Title:      input.Title,
		Excerpt:    input.Excerpt,
		Content:    input.Content,
		ImageURL:   input.ImageURL,
		Category:   input.Category,
		AuthorName: input.AuthorName,
		ReadTime:   input.ReadTime,
	}

	updated, err := bc.Blogs.Update(c.Request.Context(), c.Param("id"), update)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Blog not found"})
		return
	}
	if err != nil {
		log.Println("Error updating blog:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update blog post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Blog updated successfully", "blog": updated})
}

func (bc *BlogController) Delete(c *gin.Context) {
	principal := middlewares.GetPrincipal(c)
	if !auth.CanManageBlogs(principal) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: Only Master Admins can delete blogs."})
		return
	}

	deleted, err := bc.Blogs.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Blog not found"})
		return
	}
	if err != nil {
		log.Println("Error deleting blog:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete blog post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Blog deleted successfully", "deleted": deleted})
}
