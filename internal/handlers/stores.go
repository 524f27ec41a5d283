package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wrenchforum/backend/internal/forum"
	"github.com/wrenchforum/backend/internal/models"
)

type StoreHandler struct {
	svc *forum.Service
}

func NewStoreHandler(svc *forum.Service) *StoreHandler {
	return &StoreHandler{svc: svc}
}

// GetStores lists the store directory, optionally filtered by ?category=.
func (h *StoreHandler) GetStores(c *gin.Context) {
	stores, err := h.svc.ListStores(c.Query("category"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stores"})
		return
	}
	if stores == nil {
		stores = []models.Store{}
	}

	categories, err := h.svc.StoreCategories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch store categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stores": stores, "categories": categories})
}

// SubmitStore adds a store to the directory (verified mechanics and above).
func (h *StoreHandler) SubmitStore(c *gin.Context) {
	user, ok := currentUser(c, h.svc)
	if !ok {
		return
	}

	var input models.SubmitStoreRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	store, err := h.svc.SubmitStore(user, input.Name, input.URL, input.Category)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, store)
}

// VoteStore upserts the caller's rating of a store and returns the new
// reliability. A nil reliability means the store has no ratings.
func (h *StoreHandler) VoteStore(c *gin.Context) {
	user, ok := currentUser(c, h.svc)
	if !ok {
		return
	}
	storeID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
		return
	}

	var input models.StoreVoteRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reliability, err := h.svc.RateStore(user, storeID, input.Positive)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reliability": reliability})
}
