package handlers

import (
	"net/http"
	"strconv"

	"merchpilot/internal/logger"
	"merchpilot/internal/models"
	"merchpilot/internal/store"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ActionHandler struct {
	actions  *store.ActionStore
	feedback *store.FeedbackStore
	logger   *logger.Logger
}

func NewActionHandler(actions *store.ActionStore, feedback *store.FeedbackStore, logger *logger.Logger) *ActionHandler {
	return &ActionHandler{
		actions:  actions,
		feedback: feedback,
		logger:   logger,
	}
}

// List returns a shop's audit actions, optionally filtered by kind or status
func (h *ActionHandler) List(c *gin.Context) {
	shopID := c.Param("id")
	kind := models.ActionKind(c.Query("kind"))
	status := models.ActionStatus(c.Query("status"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	actions, err := h.actions.ListByShop(c.Request.Context(), shopID, kind, status, limit)
	if err != nil {
		h.logger.Error("Failed to list actions for shop %s: %v", shopID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch actions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": actions})
}

// Approve marks a suggested action as completed and records one approval
func (h *ActionHandler) Approve(c *gin.Context) {
	h.resolve(c, true)
}

// Reject marks a suggested action as skipped and records one rejection
func (h *ActionHandler) Reject(c *gin.Context) {
	h.resolve(c, false)
}

// resolve flips the action status and synthesizes exactly one feedback row.
// An action can only be resolved once.
func (h *ActionHandler) resolve(c *gin.Context, approved bool) {
	actionID := c.Param("id")
	ctx := c.Request.Context()

	action, err := h.actions.GetByID(ctx, actionID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Action not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch action"})
		return
	}

	if action.Status != models.ActionStatusSuggested && action.Status != models.ActionStatusPending {
		c.JSON(http.StatusConflict, gin.H{"error": "Action has already been resolved"})
		return
	}

	newStatus := models.ActionStatusCompleted
	if !approved {
		newStatus = models.ActionStatusSkipped
	}

	if err := h.actions.UpdateStatus(ctx, action.ID, newStatus); err != nil {
		h.logger.Error("Failed to update action %s: %v", action.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update action"})
		return
	}

	feedback := &models.AIFeedback{
		ShopID:     action.ShopID,
		ProductID:  action.ProductID,
		ActionID:   action.ID,
		ActionKind: action.Kind,
		Approved:   approved,
	}
	if err := h.feedback.Create(ctx, feedback); err != nil {
		h.logger.Error("Failed to record feedback for action %s: %v", action.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record feedback"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"action_id": action.ID,
			"status":    newStatus,
			"approved":  approved,
		},
	})
}
