package handlers

import (
	"net/http"

	"merchpilot/internal/logger"
	"merchpilot/internal/models"
	"merchpilot/internal/store"

	"github.com/gin-gonic/gin"
)

type ConfigHandler struct {
	configs *store.ConfigStore
	logger  *logger.Logger
}

func NewConfigHandler(configs *store.ConfigStore, logger *logger.Logger) *ConfigHandler {
	return &ConfigHandler{
		configs: configs,
		logger:  logger,
	}
}

// Get returns the shop's autopilot settings, defaulted when never saved
func (h *ConfigHandler) Get(c *gin.Context) {
	shopID := c.Param("id")

	cfg, err := h.configs.Get(c.Request.Context(), shopID)
	if err != nil {
		h.logger.Error("Failed to load config for shop %s: %v", shopID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch shop config"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": cfg})
}

// Update validates and saves the automation mode and risk level
func (h *ConfigHandler) Update(c *gin.Context) {
	shopID := c.Param("id")

	var request struct {
		Mode      models.AutomationMode `json:"mode" binding:"required"`
		RiskLevel models.RiskLevel      `json:"risk_level" binding:"required"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !request.Mode.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be one of manual, assist, full"})
		return
	}
	if !request.RiskLevel.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "risk_level must be one of safe, normal, aggressive"})
		return
	}

	cfg, err := h.configs.Set(c.Request.Context(), shopID, request.Mode, request.RiskLevel)
	if err != nil {
		h.logger.Error("Failed to save config for shop %s: %v", shopID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save shop config"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": cfg})
}
