package handler

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/brewpos-api/internal/application/service"
	"github.com/sangkips/brewpos-api/internal/domain/entity"
	"github.com/sangkips/brewpos-api/internal/domain/repository"
	"github.com/sangkips/brewpos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/brewpos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/brewpos-api/pkg/pagination"
)

// maxMenuTableSize bounds a menu table upload
const maxMenuTableSize = 1 << 20

// CatalogHandler handles categories, items and the menu table
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListCategories lists the store's categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Categories retrieved successfully", categories)
}

// CreateCategory creates a category
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req request.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	category, err := h.catalogService.CreateCategory(c.Request.Context(), &service.CategoryInput{
		Name:     req.Name,
		Position: req.Position,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Category created successfully", category)
}

// UpdateCategory renames or moves a category
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req request.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	category, err := h.catalogService.UpdateCategory(c.Request.Context(), id, &service.CategoryInput{
		Name:     req.Name,
		Position: req.Position,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Category updated successfully", category)
}

// DeleteCategory deletes an empty category
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteCategory(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Category deleted successfully", nil)
}

// ListItems lists catalog items with filtering and pagination
func (h *CatalogHandler) ListItems(c *gin.Context) {
	var filter request.ItemFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	categoryID, err := optionalUUID("category_id", filter.CategoryID)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.catalogService.ListItems(c.Request.Context(), &repository.CatalogFilterParams{
		Pagination: &pagination.PaginationParams{Page: filter.Page, PerPage: filter.PerPage},
		Search:     filter.Search,
		CategoryID: categoryID,
		Available:  filter.Available,
		POSVisible: filter.POSVisible,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Items retrieved successfully", result)
}

// CreateItem creates a catalog item
func (h *CatalogHandler) CreateItem(c *gin.Context) {
	var req request.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	item, err := h.catalogService.CreateItem(c.Request.Context(), itemInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Item created successfully", item)
}

// GetItem returns one catalog item
func (h *CatalogHandler) GetItem(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	item, err := h.catalogService.GetItem(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item retrieved successfully", item)
}

// UpdateItem replaces a catalog item's fields
func (h *CatalogHandler) UpdateItem(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req request.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	item, err := h.catalogService.UpdateItem(c.Request.Context(), id, itemInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item updated successfully", item)
}

// DeleteItem deletes a catalog item
func (h *CatalogHandler) DeleteItem(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteItem(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item deleted successfully", nil)
}

// SetAvailability toggles whether an item can be sold
func (h *CatalogHandler) SetAvailability(c *gin.Context) {
	h.toggle(c, h.catalogService.SetAvailability, "Item availability updated")
}

// SetVisibility toggles whether an item is shown on the POS
func (h *CatalogHandler) SetVisibility(c *gin.Context) {
	h.toggle(c, h.catalogService.SetVisibility, "Item visibility updated")
}

func (h *CatalogHandler) toggle(c *gin.Context, apply func(context.Context, uuid.UUID, bool) (*entity.CatalogItem, error), message string) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req request.ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: value is required")
		return
	}

	item, err := apply(c.Request.Context(), id, *req.Value)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, message, item)
}

// POSMenu returns the sellable menu grouped by category
func (h *CatalogHandler) POSMenu(c *gin.Context) {
	menu, err := h.catalogService.POSMenu(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Menu retrieved successfully", menu)
}

// SyncToPOS pushes the current menu to every connected POS view
func (h *CatalogHandler) SyncToPOS(c *gin.Context) {
	menu, err := h.catalogService.SyncToPOS(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Menu synced to POS", menu)
}

// ExportMenu downloads the catalog as a markdown table
func (h *CatalogHandler) ExportMenu(c *gin.Context) {
	table, err := h.catalogService.ExportMenu(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="menu.md"`)
	c.Data(200, "text/markdown; charset=utf-8", []byte(table))
}

// ImportMenu creates items from a markdown table. The table is sent either
// as JSON {"table": ..., "keep_duplicates": ...} or as the raw request body
// with ?keep_duplicates=true.
func (h *CatalogHandler) ImportMenu(c *gin.Context) {
	var table string
	var keepDuplicates bool

	if strings.HasPrefix(c.ContentType(), "application/json") {
		var req request.MenuImportRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body: "+err.Error())
			return
		}
		table, keepDuplicates = req.Table, req.KeepDuplicates
	} else {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxMenuTableSize+1))
		if err != nil {
			response.BadRequest(c, "Failed to read menu table")
			return
		}
		if len(body) > maxMenuTableSize {
			response.BadRequest(c, "Menu table is too large")
			return
		}
		table = string(body)
		keepDuplicates, _ = strconv.ParseBool(c.Query("keep_duplicates"))
	}

	result, err := h.catalogService.ImportMenu(c.Request.Context(), table, keepDuplicates)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Menu imported successfully", result)
}

func itemInput(req *request.ItemRequest) *service.ItemInput {
	return &service.ItemInput{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Available:   req.Available,
		POSVisible:  req.POSVisible,
	}
}
