package repository

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"inventra/internal/model"
)

// ProductFilter narrows and orders the product listing. Nil range bounds
// are open-ended.
type ProductFilter struct {
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	MinStock *int
	MaxStock *int
	Category *string
	Query    string // case-insensitive substring over name and description
	OrderBy  string // price, stock, created_at
	Desc     bool
	Limit    int
	Offset   int
}

// ProductRepository defines data access for Product entities and their
// supplier associations.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	ReplaceSuppliers(ctx context.Context, product *model.Product, suppliers []model.Supplier) error
	Delete(ctx context.Context, product *model.Product) error
	List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create persists the product row and any pre-populated supplier
// associations as one insert graph.
func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return GetDB(ctx, r.db).Create(product).Error
}

func (r *productRepository) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	if err := GetDB(ctx, r.db).Preload("Suppliers").First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Model(&model.Product{}).Where("id = ?", id).Updates(fields).Error
}

// ReplaceSuppliers swaps the product's supplier set in full. An empty
// slice clears all associations.
func (r *productRepository) ReplaceSuppliers(ctx context.Context, product *model.Product, suppliers []model.Supplier) error {
	return GetDB(ctx, r.db).Model(product).Association("Suppliers").Replace(suppliers)
}

func (r *productRepository) Delete(ctx context.Context, product *model.Product) error {
	db := GetDB(ctx, r.db)
	if err := db.Model(product).Association("Suppliers").Clear(); err != nil {
		return err
	}
	return db.Delete(product).Error
}

func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Product{})

	if filter.MinPrice != nil {
		db = db.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		db = db.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.MinStock != nil {
		db = db.Where("stock >= ?", *filter.MinStock)
	}
	if filter.MaxStock != nil {
		db = db.Where("stock <= ?", *filter.MaxStock)
	}
	if filter.Category != nil {
		db = db.Where("category = ?", *filter.Category)
	}
	if filter.Query != "" {
		// LOWER(...) LIKE keeps the substring match portable across
		// postgres and the sqlite test databases.
		pattern := "%" + strings.ToLower(filter.Query) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(COALESCE(description, '')) LIKE ?", pattern, pattern)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at"
	switch filter.OrderBy {
	case "price", "stock", "created_at":
		order = filter.OrderBy
	}
	if filter.Desc {
		order += " desc"
	}

	if err := db.Preload("Suppliers").Order(order).Offset(filter.Offset).Limit(filter.Limit).Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}
