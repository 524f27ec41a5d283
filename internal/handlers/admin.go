package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wrenchforum/backend/internal/forum"
	"github.com/wrenchforum/backend/internal/models"
)

type AdminHandler struct {
	svc *forum.Service
}

func NewAdminHandler(svc *forum.Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// PendingVerifications lists open verification requests, oldest first.
func (h *AdminHandler) PendingVerifications(c *gin.Context) {
	user, ok := currentUser(c, h.svc)
	if !ok {
		return
	}

	reqs, err := h.svc.PendingVerifications(user)
	if err != nil {
		respondError(c, err)
		return
	}
	if reqs == nil {
		reqs = []models.VerificationRequest{}
	}
	c.JSON(http.StatusOK, reqs)
}

// ApproveVerification grants the requester the verified mechanic role.
func (h *AdminHandler) ApproveVerification(c *gin.Context) {
	h.resolve(c, true)
}

// DenyVerification closes the request without a role change.
func (h *AdminHandler) DenyVerification(c *gin.Context) {
	h.resolve(c, false)
}

func (h *AdminHandler) resolve(c *gin.Context, approve bool) {
	user, ok := currentUser(c, h.svc)
	if !ok {
		return
	}
	requestID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}

	if err := h.svc.ResolveVerification(user, requestID, approve); err != nil {
		respondError(c, err)
		return
	}

	msg := "Verification denied"
	if approve {
		msg = "Verification approved"
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}
