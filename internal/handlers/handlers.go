package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wrenchforum/backend/internal/forum"
	"github.com/wrenchforum/backend/internal/models"
)

// Handler combines all handler types
type Handler struct {
	Auth    *AuthHandler
	Post    *PostHandler
	Comment *CommentHandler
	Store   *StoreHandler
	Mod     *ModHandler
	Admin   *AdminHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(svc *forum.Service, jwtSecret string) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(svc, jwtSecret),
		Post:    NewPostHandler(svc),
		Comment: NewCommentHandler(svc),
		Store:   NewStoreHandler(svc),
		Mod:     NewModHandler(svc),
		Admin:   NewAdminHandler(svc),
	}
}

// currentUser loads the authenticated user set by the auth middleware.
// Banned users resolve fine here; the forum core denies their mutations.
func currentUser(c *gin.Context, svc *forum.Service) (*models.User, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, false
	}
	id, ok := raw.(int)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID type"})
		return nil, false
	}
	user, err := svc.GetUser(id)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
		return nil, false
	}
	return user, true
}

// respondError maps forum errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch forum.KindOf(err) {
	case forum.KindPermission:
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case forum.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case forum.KindConflict:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case forum.KindValidation:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}
