package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"merchpilot/internal/autopilot"
	"merchpilot/internal/logger"
	"merchpilot/internal/store"

	"github.com/gin-gonic/gin"
)

// TriggerPublisher queues an asynchronous run request for the worker.
type TriggerPublisher interface {
	Publish(ctx context.Context, shopID, source string) error
}

type AutopilotHandler struct {
	runner    *autopilot.Runner
	runs      *store.RunStore
	publisher TriggerPublisher
	logger    *logger.Logger
}

func NewAutopilotHandler(runner *autopilot.Runner, runs *store.RunStore, publisher TriggerPublisher, logger *logger.Logger) *AutopilotHandler {
	return &AutopilotHandler{
		runner:    runner,
		runs:      runs,
		publisher: publisher,
		logger:    logger,
	}
}

// Run triggers an autopilot pass for the shop. By default the run executes
// synchronously and the summary is returned; with ?async=1 the request is
// queued for the worker instead.
func (h *AutopilotHandler) Run(c *gin.Context) {
	shopID := c.Param("id")

	if c.Query("async") == "1" {
		if err := h.publisher.Publish(c.Request.Context(), shopID, "api"); err != nil {
			h.logger.Error("Failed to queue run for shop %s: %v", shopID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue autopilot run"})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"message": "Autopilot run queued"})
		return
	}

	summary, err := h.runner.RunShop(c.Request.Context(), shopID)
	if err != nil {
		if errors.Is(err, autopilot.ErrRunInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": "A run is already in progress for this shop"})
			return
		}
		h.logger.Error("Autopilot run failed for shop %s: %v", shopID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": summary})
}

// ListRuns returns the shop's recent run records, newest first
func (h *AutopilotHandler) ListRuns(c *gin.Context) {
	shopID := c.Param("id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	runs, err := h.runs.ListByShop(c.Request.Context(), shopID, limit)
	if err != nil {
		h.logger.Error("Failed to list runs for shop %s: %v", shopID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch runs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": runs})
}
