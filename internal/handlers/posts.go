package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wrenchforum/backend/internal/forum"
	"github.com/wrenchforum/backend/internal/models"
)

type PostHandler struct {
	svc *forum.Service
}

func NewPostHandler(svc *forum.Service) *PostHandler {
	return &PostHandler{svc: svc}
}

// GetCategories returns the category reference list.
func (h *PostHandler) GetCategories(c *gin.Context) {
	cats, err := h.svc.Categories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}
	c.JSON(http.StatusOK, cats)
}

// GetPosts lists visible posts, optionally filtered by ?category= and
// ordered by ?sort=new|top.
func (h *PostHandler) GetPosts(c *gin.Context) {
	posts, err := h.svc.ListPosts(c.Query("category"), c.DefaultQuery("sort", forum.SortNew))
	if err != nil {
		respondError(c, err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	c.JSON(http.StatusOK, posts)
}

// GetCategoryPosts lists a category's posts by slug.
func (h *PostHandler) GetCategoryPosts(c *gin.Context) {
	posts, err := h.svc.ListPosts(c.Param("slug"), c.DefaultQuery("sort", forum.SortNew))
	if err != nil {
		respondError(c, err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	c.JSON(http.StatusOK, posts)
}

// GetThread returns a post with its threaded comments.
func (h *PostHandler) GetThread(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	// Viewer is optional here; moderators see removed content.
	var viewer *models.User
	if raw, exists := c.Get("user_id"); exists {
		if id, ok := raw.(int); ok {
			viewer, _ = h.svc.GetUser(id)
		}
	}

	post, comments, err := h.svc.GetThread(viewer, postID)
	if err != nil {
		respondError(c, err)
		return
	}
	if comments == nil {
		comments = []*models.Comment{}
	}
	c.JSON(http.StatusOK, gin.H{"post": post, "comments": comments})
}

// CreatePost creates a new post (verified mechanics and above).
func (h *PostHandler) CreatePost(c *gin.Context) {
	user, ok := currentUser(c, h.svc)
	if !ok {
		return
	}

	var input models.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.svc.CreatePost(user, input.CategorySlug, input.Title, input.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// VotePost casts, changes or retracts the caller's vote on a post and
// returns the new score.
func (h *PostHandler) VotePost(c *gin.Context) {
	user, ok := currentUser(c, h.svc)
	if !ok {
		return
	}
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var input models.VoteRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vote value must be -1, 0 or 1"})
		return
	}

	score, err := h.svc.VotePost(user, postID, input.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"score": score})
}

// ReportPost files a report against a post.
func (h *PostHandler) ReportPost(c *gin.Context) {
	user, ok := currentUser(c, h.svc)
	if !ok {
		return
	}
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var input models.ReportRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.svc.ReportPost(user, postID, input.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}
