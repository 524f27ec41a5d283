package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wrenchforum/backend/internal/forum"
	"github.com/wrenchforum/backend/internal/models"
)

type CommentHandler struct {
	svc *forum.Service
}

func NewCommentHandler(svc *forum.Service) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// CreateComment adds a comment (or reply) to a post.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	user, ok := currentUser(c, h.svc)
	if !ok {
		return
	}
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var input models.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.svc.CreateComment(user, postID, input.ParentID, input.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// VoteComment casts, changes or retracts the caller's vote on a comment.
func (h *CommentHandler) VoteComment(c *gin.Context) {
	user, ok := currentUser(c, h.svc)
	if !ok {
		return
	}
	commentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	var input models.VoteRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vote value must be -1, 0 or 1"})
		return
	}

	score, err := h.svc.VoteComment(user, commentID, input.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"score": score})
}

// ReportComment files a report against a comment.
func (h *CommentHandler) ReportComment(c *gin.Context) {
	user, ok := currentUser(c, h.svc)
	if !ok {
		return
	}
	commentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	var input models.ReportRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.svc.ReportComment(user, commentID, input.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}
