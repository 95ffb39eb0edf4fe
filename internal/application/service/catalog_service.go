package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/brewpos-api/internal/clock"
	"github.com/sangkips/brewpos-api/internal/domain/entity"
	"github.com/sangkips/brewpos-api/internal/domain/repository"
	"github.com/sangkips/brewpos-api/internal/infrastructure/events"
	"github.com/sangkips/brewpos-api/pkg/apperror"
	"github.com/sangkips/brewpos-api/pkg/menutable"
	"github.com/sangkips/brewpos-api/pkg/metrics"
	"github.com/sangkips/brewpos-api/pkg/money"
	"github.com/sangkips/brewpos-api/pkg/pagination"
	"github.com/sangkips/brewpos-api/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// defaultCategoryName is used for imported rows without a category
const defaultCategoryName = "Uncategorized"

// CatalogService handles categories, items and the menu table
type CatalogService struct {
	categoryRepo repository.CategoryRepository
	itemRepo     repository.CatalogItemRepository
	bus          events.Bus
	metrics      *metrics.Metrics
	clock        clock.Clock
	log          *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	itemRepo repository.CatalogItemRepository,
	bus events.Bus,
	m *metrics.Metrics,
	clk clock.Clock,
	log *zap.Logger,
) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		itemRepo:     itemRepo,
		bus:          bus,
		metrics:      m,
		clock:        clk,
		log:          loggerOrNop(log),
	}
}

// MenuSnapshot is the sellable menu pushed to POS views
type MenuSnapshot struct {
	StoreID    uuid.UUID         `json:"store_id"`
	Categories []entity.Category `json:"categories"`
}

// CategoryInput represents the create and update category input
type CategoryInput struct {
	Name     string
	Position int
}

// CreateCategory creates a new category
func (s *CatalogService) CreateCategory(ctx context.Context, input *CategoryInput) (*entity.Category, error) {
	storeID, err := storeFromContext(ctx)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewFieldError("name", "is required")
	}

	existing, err := s.categoryRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Category already exists")
	}

	category := &entity.Category{
		StoreID:  storeID,
		Name:     name,
		Slug:     utils.Slugify(name),
		Position: input.Position,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	s.syncMenu(ctx, storeID, events.KindItemChanged)
	return category, nil
}

// UpdateCategory renames or moves a category
func (s *CatalogService) UpdateCategory(ctx context.Context, id uuid.UUID, input *CategoryInput) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperror.NewNotFoundError("Category")
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewFieldError("name", "is required")
	}
	if !strings.EqualFold(name, category.Name) {
		existing, err := s.categoryRepo.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflictError("Category already exists")
		}
	}

	category.Name = name
	category.Slug = utils.Slugify(name)
	category.Position = input.Position
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	s.syncMenu(ctx, category.StoreID, events.KindItemChanged)
	return category, nil
}

// DeleteCategory removes an empty category
func (s *CatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if category == nil {
		return apperror.NewNotFoundError("Category")
	}

	count, err := s.categoryRepo.CountItems(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperror.NewConflictError("Category still has items")
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.syncMenu(ctx, category.StoreID, events.KindItemChanged)
	return nil
}

// ListCategories lists the store's categories in display order
func (s *CatalogService) ListCategories(ctx context.Context) ([]entity.Category, error) {
	return s.categoryRepo.List(ctx)
}

// ItemInput represents the create and update item input. Nil flags default
// to true on create and are left unchanged on update.
type ItemInput struct {
	CategoryID  uuid.UUID
	Name        string
	Description string
	Price       decimal.Decimal
	Available   *bool
	POSVisible  *bool
}

// CreateItem creates a new catalog item
func (s *CatalogService) CreateItem(ctx context.Context, input *ItemInput) (*entity.CatalogItem, error) {
	storeID, err := storeFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validateItem(ctx, input); err != nil {
		return nil, err
	}

	item := &entity.CatalogItem{
		StoreID:     storeID,
		CategoryID:  input.CategoryID,
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Price:       money.ToCents(input.Price),
		Available:   input.Available == nil || *input.Available,
		POSVisible:  input.POSVisible == nil || *input.POSVisible,
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.syncMenu(ctx, storeID, events.KindItemChanged)
	return s.itemRepo.GetByID(ctx, item.ID)
}

// GetItem retrieves a catalog item by ID
func (s *CatalogService) GetItem(ctx context.Context, id uuid.UUID) (*entity.CatalogItem, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Item")
	}
	return item, nil
}

// UpdateItem updates a catalog item. Past sales keep their snapshot.
func (s *CatalogService) UpdateItem(ctx context.Context, id uuid.UUID, input *ItemInput) (*entity.CatalogItem, error) {
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateItem(ctx, input); err != nil {
		return nil, err
	}

	item.CategoryID = input.CategoryID
	item.Name = strings.TrimSpace(input.Name)
	item.Description = strings.TrimSpace(input.Description)
	item.Price = money.ToCents(input.Price)
	if input.Available != nil {
		item.Available = *input.Available
	}
	if input.POSVisible != nil {
		item.POSVisible = *input.POSVisible
	}
	item.Category = nil

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	s.syncMenu(ctx, item.StoreID, events.KindItemChanged)
	return s.itemRepo.GetByID(ctx, item.ID)
}

// DeleteItem removes a catalog item
func (s *CatalogService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return err
	}
	if err := s.itemRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.syncMenu(ctx, item.StoreID, events.KindItemChanged)
	return nil
}

// SetAvailability marks an item as available or sold out
func (s *CatalogService) SetAvailability(ctx context.Context, id uuid.UUID, available bool) (*entity.CatalogItem, error) {
	return s.toggle(ctx, id, func(item *entity.CatalogItem) { item.Available = available })
}

// SetVisibility shows or hides an item on the POS
func (s *CatalogService) SetVisibility(ctx context.Context, id uuid.UUID, visible bool) (*entity.CatalogItem, error) {
	return s.toggle(ctx, id, func(item *entity.CatalogItem) { item.POSVisible = visible })
}

func (s *CatalogService) toggle(ctx context.Context, id uuid.UUID, apply func(*entity.CatalogItem)) (*entity.CatalogItem, error) {
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	apply(item)
	category := item.Category
	item.Category = nil
	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	item.Category = category

	s.syncMenu(ctx, item.StoreID, events.KindItemChanged)
	return item, nil
}

// ListItems lists catalog items with filtering
func (s *CatalogService) ListItems(ctx context.Context, params *repository.CatalogFilterParams) (*pagination.PaginatedResult[entity.CatalogItem], error) {
	items, total, err := s.itemRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(items, pag), nil
}

// POSMenu returns the sellable menu grouped by category
func (s *CatalogService) POSMenu(ctx context.Context) (*MenuSnapshot, error) {
	storeID, err := storeFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.snapshot(ctx, storeID)
}

// SyncToPOS pushes the current menu to every open POS view of the store
func (s *CatalogService) SyncToPOS(ctx context.Context) (*MenuSnapshot, error) {
	storeID, err := storeFromContext(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := s.snapshot(ctx, storeID)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.bus, s.log, events.TopicCatalogChanged, events.KindMenuSynced, storeID, snap, s.clock.Now())
	return snap, nil
}

// ExportMenu writes the whole catalog as a markdown table
func (s *CatalogService) ExportMenu(ctx context.Context) (string, error) {
	items, err := s.itemRepo.ListAll(ctx)
	if err != nil {
		return "", err
	}

	rows := make([]menutable.Row, 0, len(items))
	for _, item := range items {
		row := menutable.Row{
			Name:        item.Name,
			Price:       money.FromCents(item.Price),
			Description: item.Description,
			Available:   item.Available,
			Visible:     item.POSVisible,
		}
		if item.Category != nil {
			row.Category = item.Category.Name
		}
		rows = append(rows, row)
	}
	return menutable.Export(rows), nil
}

// ImportResult summarises a menu import
type ImportResult struct {
	ItemsCreated      int                       `json:"items_created"`
	CategoriesCreated int                       `json:"categories_created"`
	Duplicates        []menutable.DuplicateLine `json:"duplicates"`
}

// ImportMenu creates catalog items from a markdown table. Names repeated in
// the table or already in the catalog are duplicates; unless keepDuplicates
// is set, any duplicate aborts the import before anything is written.
func (s *CatalogService) ImportMenu(ctx context.Context, text string, keepDuplicates bool) (*ImportResult, error) {
	storeID, err := storeFromContext(ctx)
	if err != nil {
		return nil, err
	}

	parsed, err := menutable.Parse(text)
	if err != nil {
		s.metrics.MenuImported("invalid")
		if errors.Is(err, menutable.ErrNoTable) || errors.Is(err, menutable.ErrMissingColumn) {
			return nil, apperror.NewBadRequestError(err.Error())
		}
		return nil, err
	}
	if len(parsed.Errors) > 0 {
		s.metrics.MenuImported("invalid")
		fieldErrors := make([]apperror.FieldError, 0, len(parsed.Errors))
		for _, e := range parsed.Errors {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fmt.Sprintf("line %d: %s", e.Line, e.Field),
				Message: e.Message,
			})
		}
		return nil, apperror.NewValidationError(fieldErrors)
	}

	existing, err := s.itemRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(existing))
	for _, item := range existing {
		known[strings.ToLower(item.Name)] = true
	}

	rows := make([]menutable.Row, 0, len(parsed.Items))
	duplicates := make([]menutable.DuplicateLine, 0)
	for i, row := range parsed.Items {
		if known[strings.ToLower(row.Name)] {
			duplicates = append(duplicates, menutable.DuplicateLine{Line: parsed.Lines[i], Name: row.Name, Row: row})
			continue
		}
		rows = append(rows, row)
	}
	duplicates = append(duplicates, parsed.DuplicateLines...)

	if len(duplicates) > 0 && !keepDuplicates {
		s.metrics.MenuImported("conflict")
		return nil, duplicateError(duplicates)
	}
	if keepDuplicates {
		for _, d := range duplicates {
			rows = append(rows, d.Row)
		}
	}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]uuid.UUID, len(categories))
	nextPosition := 0
	for _, c := range categories {
		byName[strings.ToLower(c.Name)] = c.ID
		if c.Position >= nextPosition {
			nextPosition = c.Position + 1
		}
	}

	var newCategories []entity.Category
	items := make([]entity.CatalogItem, 0, len(rows))
	for _, row := range rows {
		categoryName := strings.TrimSpace(row.Category)
		if categoryName == "" {
			categoryName = defaultCategoryName
		}
		key := strings.ToLower(categoryName)
		categoryID, ok := byName[key]
		if !ok {
			categoryID = uuid.New()
			byName[key] = categoryID
			newCategories = append(newCategories, entity.Category{
				ID:       categoryID,
				StoreID:  storeID,
				Name:     categoryName,
				Slug:     utils.Slugify(categoryName),
				Position: nextPosition,
			})
			nextPosition++
		}

		items = append(items, entity.CatalogItem{
			StoreID:     storeID,
			CategoryID:  categoryID,
			Name:        row.Name,
			Description: row.Description,
			Price:       money.ToCents(row.Price),
			Available:   row.Available,
			POSVisible:  row.Visible,
		})
	}

	if err := s.itemRepo.ImportBatch(ctx, newCategories, items); err != nil {
		return nil, err
	}

	s.metrics.MenuImported("ok")
	s.log.Info("menu imported",
		zap.String("store_id", storeID.String()),
		zap.Int("items", len(items)),
		zap.Int("categories", len(newCategories)),
		zap.Int("duplicates_kept", len(duplicates)),
	)
	s.syncMenu(ctx, storeID, events.KindMenuSynced)

	return &ImportResult{
		ItemsCreated:      len(items),
		CategoriesCreated: len(newCategories),
		Duplicates:        duplicates,
	}, nil
}

func duplicateError(duplicates []menutable.DuplicateLine) error {
	fieldErrors := make([]apperror.FieldError, 0, len(duplicates))
	for _, d := range duplicates {
		msg := fmt.Sprintf("%q already exists in the catalog", d.Name)
		if d.FirstLine > 0 {
			msg = fmt.Sprintf("%q repeats line %d", d.Name, d.FirstLine)
		}
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field:   fmt.Sprintf("line %d", d.Line),
			Message: msg,
		})
	}
	return &apperror.AppError{
		Code:    apperror.ErrConflict.Code,
		Message: "Menu contains duplicate items",
		Errors:  fieldErrors,
	}
}

func (s *CatalogService) validateItem(ctx context.Context, input *ItemInput) error {
	var fieldErrors []apperror.FieldError
	if strings.TrimSpace(input.Name) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "is required"})
	}
	if input.Price.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "price", Message: "must not be negative"})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}

	category, err := s.categoryRepo.GetByID(ctx, input.CategoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return apperror.NewFieldError("category_id", "category not found")
	}
	return nil
}

func (s *CatalogService) snapshot(ctx context.Context, storeID uuid.UUID) (*MenuSnapshot, error) {
	categories, err := s.categoryRepo.ListWithItems(ctx, storeID, true)
	if err != nil {
		return nil, err
	}
	return &MenuSnapshot{StoreID: storeID, Categories: categories}, nil
}

// syncMenu publishes the full sellable menu after a catalog write
func (s *CatalogService) syncMenu(ctx context.Context, storeID uuid.UUID, kind string) {
	snap, err := s.snapshot(ctx, storeID)
	if err != nil {
		s.log.Warn("menu snapshot failed", zap.String("store_id", storeID.String()), zap.Error(err))
		return
	}
	publish(ctx, s.bus, s.log, events.TopicCatalogChanged, kind, storeID, snap, s.clock.Now())
}
