package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wrenchforum/backend/internal/forum"
	"github.com/wrenchforum/backend/internal/models"
)

type ModHandler struct {
	svc *forum.Service
}

func NewModHandler(svc *forum.Service) *ModHandler {
	return &ModHandler{svc: svc}
}

// ModQueue returns open reports oldest-first plus the current ban list.
func (h *ModHandler) ModQueue(c *gin.Context) {
	user, ok := currentUser(c, h.svc)
	if !ok {
		return
	}

	reports, err := h.svc.ModQueue(user)
	if err != nil {
		respondError(c, err)
		return
	}
	if reports == nil {
		reports = []models.Report{}
	}

	banned, err := h.svc.BannedUsers(user)
	if err != nil {
		respondError(c, err)
		return
	}
	if banned == nil {
		banned = []models.User{}
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports, "banned_users": banned})
}

// BannedUsers lists currently banned accounts.
func (h *ModHandler) BannedUsers(c *gin.Context) {
	user, ok := currentUser(c, h.svc)
	if !ok {
		return
	}

	banned, err := h.svc.BannedUsers(user)
	if err != nil {
		respondError(c, err)
		return
	}
	if banned == nil {
		banned = []models.User{}
	}
	c.JSON(http.StatusOK, banned)
}

// ResolveReport dismisses a report or removes its target, atomically.
func (h *ModHandler) ResolveReport(c *gin.Context) {
	user, ok := currentUser(c, h.svc)
	if !ok {
		return
	}
	reportID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	var input struct {
		Action string `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.ResolveReport(user, reportID, input.Action); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Report resolved"})
}

// RemovePost hides a post from public listings.
func (h *ModHandler) RemovePost(c *gin.Context) {
	h.setPostRemoved(c, true)
}

// RestorePost makes a removed post visible again.
func (h *ModHandler) RestorePost(c *gin.Context) {
	h.setPostRemoved(c, false)
}

func (h *ModHandler) setPostRemoved(c *gin.Context, removed bool) {
	user, ok := currentUser(c, h.svc)
	if !ok {
		return
	}
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	if removed {
		err = h.svc.RemovePost(user, postID)
	} else {
		err = h.svc.RestorePost(user, postID)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	msg := "Post removed"
	if !removed {
		msg = "Post restored"
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// RemoveComment hides a comment.
func (h *ModHandler) RemoveComment(c *gin.Context) {
	user, ok := currentUser(c, h.svc)
	if !ok {
		return
	}
	commentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	if err := h.svc.RemoveComment(user, commentID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment removed"})
}

// GetPost fetches a post regardless of visibility, for moderator audit.
func (h *ModHandler) GetPost(c *gin.Context) {
	user, ok := currentUser(c, h.svc)
	if !ok {
		return
	}
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	post, err := h.svc.GetPost(user, postID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// BanUser bans a user; their content stays up.
func (h *ModHandler) BanUser(c *gin.Context) {
	user, ok := currentUser(c, h.svc)
	if !ok {
		return
	}
	targetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := h.svc.Ban(user, targetID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User banned"})
}

// UnbanUser lifts a ban.
func (h *ModHandler) UnbanUser(c *gin.Context) {
	user, ok := currentUser(c, h.svc)
	if !ok {
		return
	}
	targetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := h.svc.Unban(user, targetID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User unbanned"})
}
