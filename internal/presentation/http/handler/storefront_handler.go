package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/brewpos-api/internal/application/service"
	"github.com/sangkips/brewpos-api/internal/presentation/http/dto/response"
)

// StorefrontHandler serves the public menu
type StorefrontHandler struct {
	storefrontService *service.StorefrontService
}

// NewStorefrontHandler creates a new storefront handler
func NewStorefrontHandler(storefrontService *service.StorefrontService) *StorefrontHandler {
	return &StorefrontHandler{storefrontService: storefrontService}
}

// Menu returns a store's public menu
func (h *StorefrontHandler) Menu(c *gin.Context) {
	storeID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	menu, err := h.storefrontService.Menu(c.Request.Context(), storeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Menu retrieved successfully", menu)
}
