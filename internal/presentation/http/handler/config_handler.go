package handler

import (
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/brewpos-api/internal/application/service"
	"github.com/sangkips/brewpos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/brewpos-api/internal/presentation/http/dto/response"
)

// maxSectionSize bounds a configuration section payload
const maxSectionSize = 64 << 10

// ConfigHandler handles the global and per-store POS configuration
type ConfigHandler struct {
	posConfig *service.POSConfigService
	global    *service.GlobalConfigService
}

// NewConfigHandler creates a new configuration handler
func NewConfigHandler(posConfig *service.POSConfigService, global *service.GlobalConfigService) *ConfigHandler {
	return &ConfigHandler{posConfig: posConfig, global: global}
}

// GetGlobal returns the configuration shared by every store
func (h *ConfigHandler) GetGlobal(c *gin.Context) {
	cfg, err := h.global.GetConfig(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Global configuration retrieved", cfg)
}

// ReplaceGlobal overwrites the global configuration
func (h *ConfigHandler) ReplaceGlobal(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req request.GlobalConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	cfg, err := h.global.ReplaceConfig(c.Request.Context(), actor, &service.GlobalConfigInput{
		Currency:         req.Currency,
		CurrencyPosition: req.CurrencyPosition,
		Theme:            req.Theme,
		Language:         req.Language,
		Timezone:         req.Timezone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Global configuration updated", cfg)
}

// GetPOS returns the caller's store configuration
func (h *ConfigHandler) GetPOS(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	cfg, err := h.posConfig.GetConfig(c.Request.Context(), actor.StoreID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "POS configuration retrieved", cfg)
}

// UpdatePOSSection replaces one section (layout, colors, taxes, display)
// of the caller's store configuration
func (h *ConfigHandler) UpdatePOSSection(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxSectionSize+1))
	if err != nil || len(body) > maxSectionSize {
		response.BadRequest(c, "Invalid section payload")
		return
	}

	cfg, err := h.posConfig.UpdateSection(c.Request.Context(), actor, c.Param("section"), json.RawMessage(body))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "POS configuration updated", cfg)
}
