package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/brewpos-api/internal/application/service"
	"github.com/sangkips/brewpos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/brewpos-api/internal/presentation/http/dto/response"
)

// CartHandler handles the acting staff member's open cart
type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Get returns the cart with totals and tax preview
func (h *CartHandler) Get(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	view, err := h.cartService.View(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Cart retrieved successfully", view)
}

// AddItem adds one unit of an item
func (h *CartHandler) AddItem(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req request.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: item_id is required")
		return
	}

	view, err := h.cartService.AddItem(c.Request.Context(), actor, req.ItemID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item added to cart", view)
}

// RemoveItem removes one unit of an item
func (h *CartHandler) RemoveItem(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	itemID, ok := uuidParam(c, "item_id")
	if !ok {
		return
	}

	view, err := h.cartService.RemoveItem(c.Request.Context(), actor, itemID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item removed from cart", view)
}

// Clear empties the cart
func (h *CartHandler) Clear(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	h.cartService.Clear(actor)

	view, err := h.cartService.View(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Cart cleared", view)
}
