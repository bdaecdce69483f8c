package service

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"inventra/internal/authz"
	"inventra/internal/model"
	"inventra/internal/repository"
	ws "inventra/internal/websocket"
	"inventra/pkg/apperr"
	"inventra/pkg/pagination"
)

// DTOs

type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Price       float64 `json:"price" binding:"required"`
	Description *string `json:"description"`
	Stock       *int    `json:"stock" binding:"required"`
	Category    *string `json:"category"`
	Discount    float64 `json:"discount"`
	SupplierIDs []uint  `json:"supplier_id"`
}

// UpdateProductRequest is a partial update: nil fields stay unchanged.
// SupplierIDs distinguishes absent (nil, keep current set) from an explicit
// empty list (clear all suppliers). ID is only used by batch updates.
type UpdateProductRequest struct {
	ID          *uint    `json:"id,omitempty"`
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Description *string  `json:"description"`
	Stock       *int     `json:"stock"`
	Category    *string  `json:"category"`
	Discount    *float64 `json:"discount"`
	SupplierIDs *[]uint  `json:"supplier_id"`
}

type BatchCreateRequest struct {
	Products []CreateProductRequest `json:"products" binding:"required,min=1"`
}

type BatchUpdateRequest struct {
	Products []UpdateProductRequest `json:"products" binding:"required,min=1"`
}

type BatchDeleteRequest struct {
	IDs []uint `json:"ids" binding:"required,min=1"`
}

type SupplierSummary struct {
	ID      uint     `json:"id"`
	Name    string   `json:"name"`
	Contact *string  `json:"contact,omitempty"`
	Rating  *float64 `json:"rating,omitempty"`
}

type ProductResponse struct {
	ID          uint              `json:"id"`
	Name        string            `json:"name"`
	Price       float64           `json:"price"`
	Description *string           `json:"description,omitempty"`
	Stock       int               `json:"stock"`
	Category    *string           `json:"category,omitempty"`
	Discount    float64           `json:"discount"`
	Suppliers   []SupplierSummary `json:"suppliers"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type HistoryEntry struct {
	Field     string    `json:"field"`
	OldValue  float64   `json:"old_value"`
	NewValue  float64   `json:"new_value"`
	ChangedBy string    `json:"changed_by"`
	Timestamp time.Time `json:"timestamp"`
}

// ProductService orchestrates the product workflow: request validation,
// authorization, mutation, history recording and transactional commit or
// rollback. Batch variants share one transaction for the whole batch.
type ProductService interface {
	Create(ctx context.Context, caller authz.Caller, req CreateProductRequest) (*ProductResponse, error)
	BatchCreate(ctx context.Context, caller authz.Caller, reqs []CreateProductRequest) error
	Get(ctx context.Context, id uint) (*ProductResponse, error)
	List(ctx context.Context, filter repository.ProductFilter) ([]ProductResponse, int64, error)
	Update(ctx context.Context, caller authz.Caller, id uint, req UpdateProductRequest) (*ProductResponse, error)
	BatchUpdate(ctx context.Context, caller authz.Caller, reqs []UpdateProductRequest) error
	Delete(ctx context.Context, caller authz.Caller, id uint) error
	BatchDelete(ctx context.Context, caller authz.Caller, ids []uint) error
	History(ctx context.Context, caller authz.Caller, productID uint, from, to *time.Time) ([]HistoryEntry, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	historyRepo  repository.HistoryRepository
	txManager    repository.TransactionManager
	hub          *ws.Hub
}

func NewProductService(
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
	historyRepo repository.HistoryRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		historyRepo:  historyRepo,
		txManager:    txManager,
		hub:          hub,
	}
}

// two returns v normalized to 2 decimal places.
func two(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func validateName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < 3 || n > 100 {
		return apperr.Validation("name must be between 3 and 100 characters")
	}
	return nil
}

func validateCreateProduct(req CreateProductRequest) error {
	if err := validateName(req.Name); err != nil {
		return err
	}
	if req.Price <= 0 {
		return apperr.Validation("price must be greater than zero")
	}
	if req.Stock == nil || *req.Stock < 0 {
		return apperr.Validation("stock must be a non-negative integer")
	}
	if req.Discount < 0 || req.Discount > 100 {
		return apperr.Validation("discount must be between 0 and 100")
	}
	return nil
}

// resolveSuppliers looks up an explicit supplier id list. Any id that does
// not resolve fails the whole operation.
func (s *productService) resolveSuppliers(ctx context.Context, ids []uint) ([]model.Supplier, error) {
	unique := make([]uint, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	suppliers, err := s.supplierRepo.FindByIDs(ctx, unique)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if len(suppliers) != len(unique) {
		found := make(map[uint]bool, len(suppliers))
		for _, sup := range suppliers {
			found[sup.ID] = true
		}
		for _, id := range unique {
			if !found[id] {
				return nil, apperr.InvalidSupplierID("supplier %d does not exist", id)
			}
		}
	}
	return suppliers, nil
}

func (s *productService) Create(ctx context.Context, caller authz.Caller, req CreateProductRequest) (*ProductResponse, error) {
	var product *model.Product
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		product, err = s.createTx(txCtx, caller, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	res := mapProduct(product)
	s.publish("product_created", res)
	return res, nil
}

func (s *productService) BatchCreate(ctx context.Context, caller authz.Caller, reqs []CreateProductRequest) error {
	if len(reqs) == 0 {
		return apperr.Validation("batch must contain at least one product")
	}

	created := make([]*model.Product, 0, len(reqs))
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		for _, req := range reqs {
			product, err := s.createTx(txCtx, caller, req)
			if err != nil {
				return err
			}
			created = append(created, product)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, p := range created {
		s.publish("product_created", mapProduct(p))
	}
	return nil
}

// createTx runs one create inside an already-open transaction context.
func (s *productService) createTx(ctx context.Context, caller authz.Caller, req CreateProductRequest) (*model.Product, error) {
	if err := authz.CanCreateProduct(caller); err != nil {
		return nil, err
	}
	if err := validateCreateProduct(req); err != nil {
		return nil, err
	}

	product := model.Product{
		Name:        req.Name,
		Price:       two(req.Price),
		Description: req.Description,
		Stock:       *req.Stock,
		Category:    req.Category,
		Discount:    two(req.Discount),
	}

	// Supplier attachment: admins may name any existing suppliers; a
	// supplier-role caller is always linked to their own supplier record
	// and any explicit list is ignored.
	switch {
	case caller.Role == model.RoleSupplier:
		if caller.SupplierID != nil {
			own, err := s.supplierRepo.FindByID(ctx, *caller.SupplierID)
			if err != nil {
				return nil, apperr.Storage(err)
			}
			product.Suppliers = []model.Supplier{*own}
		}
	case len(req.SupplierIDs) > 0:
		suppliers, err := s.resolveSuppliers(ctx, req.SupplierIDs)
		if err != nil {
			return nil, err
		}
		product.Suppliers = suppliers
	}

	if err := s.productRepo.Create(ctx, &product); err != nil {
		return nil, apperr.Storage(err)
	}

	// History intentionally starts empty: the first real price/stock change
	// writes the first rows. No "0 -> initial" seeding.
	return &product, nil
}

func (s *productService) Get(ctx context.Context, id uint) (*ProductResponse, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapProduct(product), nil
}

func (s *productService) List(ctx context.Context, filter repository.ProductFilter) ([]ProductResponse, int64, error) {
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, 0, apperr.Validation("min_price must not exceed max_price")
	}
	if filter.MinStock != nil && filter.MaxStock != nil && *filter.MinStock > *filter.MaxStock {
		return nil, 0, apperr.Validation("min_stock must not exceed max_stock")
	}
	params, err := pagination.Validate(filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, err
	}
	filter.Limit, filter.Offset = params.Limit, params.Offset

	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Storage(err)
	}

	res := make([]ProductResponse, 0, len(products))
	for i := range products {
		res = append(res, *mapProduct(&products[i]))
	}
	return res, total, nil
}

func (s *productService) Update(ctx context.Context, caller authz.Caller, id uint, req UpdateProductRequest) (*ProductResponse, error) {
	var product *model.Product
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		product, err = s.updateTx(txCtx, caller, id, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	res := mapProduct(product)
	s.publish("product_updated", res)
	return res, nil
}

func (s *productService) BatchUpdate(ctx context.Context, caller authz.Caller, reqs []UpdateProductRequest) error {
	if len(reqs) == 0 {
		return apperr.Validation("batch must contain at least one product")
	}

	updated := make([]*model.Product, 0, len(reqs))
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		for _, req := range reqs {
			if req.ID == nil {
				return apperr.Validation("every product in a batch update needs an id")
			}
			product, err := s.updateTx(txCtx, caller, *req.ID, req)
			if err != nil {
				return err
			}
			updated = append(updated, product)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, p := range updated {
		s.publish("product_updated", mapProduct(p))
	}
	return nil
}

// updateTx runs one partial update inside an already-open transaction:
// fetch, authorize, stage history rows for price/stock values that really
// change, apply field updates and the admin's supplier replacement.
func (s *productService) updateTx(ctx context.Context, caller authz.Caller, id uint, req UpdateProductRequest) (*model.Product, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.CanMutateProduct(caller, product.SupplierIDs()); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	var histories []model.History

	if req.Name != nil {
		if err := validateName(*req.Name); err != nil {
			return nil, err
		}
		fields["name"] = *req.Name
	}

	if req.Price != nil {
		newPrice := two(*req.Price)
		if !newPrice.IsPositive() {
			return nil, apperr.Validation("price must be greater than zero")
		}
		// Exact comparison after 2-decimal normalization: a no-op write
		// must not produce a history row.
		if !newPrice.Equal(product.Price.Round(2)) {
			histories = append(histories, model.History{
				ProductID: product.ID,
				Field:     model.HistoryFieldPrice,
				OldValue:  product.Price.Round(2),
				NewValue:  newPrice,
				ChangedBy: caller.Username,
			})
			fields["price"] = newPrice
		}
	}

	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, apperr.Validation("stock must be a non-negative integer")
		}
		if *req.Stock != product.Stock {
			histories = append(histories, model.History{
				ProductID: product.ID,
				Field:     model.HistoryFieldStock,
				OldValue:  decimal.NewFromInt(int64(product.Stock)),
				NewValue:  decimal.NewFromInt(int64(*req.Stock)),
				ChangedBy: caller.Username,
			})
			fields["stock"] = *req.Stock
		}
	}

	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.Discount != nil {
		if *req.Discount < 0 || *req.Discount > 100 {
			return nil, apperr.Validation("discount must be between 0 and 100")
		}
		fields["discount"] = two(*req.Discount)
	}

	// Supplier-set changes: silently dropped for supplier-role callers,
	// full replacement (empty list clears) for admins.
	var newSuppliers []model.Supplier
	replaceSuppliers := false
	if req.SupplierIDs != nil && authz.CanAssignSuppliers(caller) {
		newSuppliers, err = s.resolveSuppliers(ctx, *req.SupplierIDs)
		if err != nil {
			return nil, err
		}
		replaceSuppliers = true
	}

	if err := s.productRepo.UpdateFields(ctx, product.ID, fields); err != nil {
		return nil, apperr.Storage(err)
	}
	if err := s.historyRepo.Append(ctx, histories); err != nil {
		return nil, apperr.Storage(err)
	}
	if replaceSuppliers {
		if err := s.productRepo.ReplaceSuppliers(ctx, product, newSuppliers); err != nil {
			return nil, apperr.Storage(err)
		}
	}

	return s.findProduct(ctx, product.ID)
}

func (s *productService) Delete(ctx context.Context, caller authz.Caller, id uint) error {
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.deleteTx(txCtx, caller, id)
	})
	if err != nil {
		return err
	}

	s.publish("product_deleted", map[string]uint{"id": id})
	return nil
}

func (s *productService) BatchDelete(ctx context.Context, caller authz.Caller, ids []uint) error {
	if len(ids) == 0 {
		return apperr.Validation("batch must contain at least one id")
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		for _, id := range ids {
			if err := s.deleteTx(txCtx, caller, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, id := range ids {
		s.publish("product_deleted", map[string]uint{"id": id})
	}
	return nil
}

// deleteTx removes one product with its history and association rows
// inside an already-open transaction. Missing ids are an error, not a
// silent no-op.
func (s *productService) deleteTx(ctx context.Context, caller authz.Caller, id uint) error {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.CanMutateProduct(caller, product.SupplierIDs()); err != nil {
		return err
	}

	if err := s.historyRepo.DeleteByProduct(ctx, product.ID); err != nil {
		return apperr.Storage(err)
	}
	if err := s.productRepo.Delete(ctx, product); err != nil {
		return apperr.Storage(err)
	}
	return nil
}

func (s *productService) History(ctx context.Context, caller authz.Caller, productID uint, from, to *time.Time) ([]HistoryEntry, error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, apperr.Validation("start_date must not be after end_date")
	}

	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	// Ownership is checked once against the product, not per row.
	if err := authz.CanReadHistory(caller, product.SupplierIDs()); err != nil {
		return nil, err
	}

	rows, err := s.historyRepo.ListByProduct(ctx, productID, from, to)
	if err != nil {
		return nil, apperr.Storage(err)
	}

	entries := make([]HistoryEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, HistoryEntry{
			Field:     row.Field,
			OldValue:  row.OldValue.InexactFloat64(),
			NewValue:  row.NewValue.InexactFloat64(),
			ChangedBy: row.ChangedBy,
			Timestamp: row.CreatedAt,
		})
	}
	return entries, nil
}

func (s *productService) findProduct(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product %d not found", id)
		}
		return nil, apperr.Storage(err)
	}
	return product, nil
}

func (s *productService) publish(event string, data interface{}) {
	if s.hub != nil {
		s.hub.Publish(event, data)
	}
}

func mapProduct(p *model.Product) *ProductResponse {
	suppliers := make([]SupplierSummary, 0, len(p.Suppliers))
	for _, sup := range p.Suppliers {
		suppliers = append(suppliers, SupplierSummary{
			ID:      sup.ID,
			Name:    sup.Name,
			Contact: sup.Contact,
			Rating:  sup.Rating,
		})
	}
	return &ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price.InexactFloat64(),
		Description: p.Description,
		Stock:       p.Stock,
		Category:    p.Category,
		Discount:    p.Discount.InexactFloat64(),
		Suppliers:   suppliers,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
