package repository

import (
	"context"

	"gorm.io/gorm"

	"inventra/internal/model"
)

// SupplierRepository defines data access for Supplier entities and their
// product association rows.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *model.Supplier) error
	FindByID(ctx context.Context, id uint) (*model.Supplier, error)
	FindByIDs(ctx context.Context, ids []uint) ([]model.Supplier, error)
	FindByUserID(ctx context.Context, userID uint) (*model.Supplier, error)
	Update(ctx context.Context, supplier *model.Supplier) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, limit, offset int) ([]model.Supplier, int64, error)
	ClearProductAssociations(ctx context.Context, supplierID uint) error
}

type supplierRepository struct {
	db *gorm.DB
}

func NewSupplierRepository(db *gorm.DB) SupplierRepository {
	return &supplierRepository{db: db}
}

func (r *supplierRepository) Create(ctx context.Context, supplier *model.Supplier) error {
	return GetDB(ctx, r.db).Create(supplier).Error
}

func (r *supplierRepository) FindByID(ctx context.Context, id uint) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := GetDB(ctx, r.db).First(&supplier, id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	if len(ids) == 0 {
		return suppliers, nil
	}
	if err := GetDB(ctx, r.db).Where("id IN ?", ids).Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (r *supplierRepository) FindByUserID(ctx context.Context, userID uint) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := GetDB(ctx, r.db).First(&supplier, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepository) Update(ctx context.Context, supplier *model.Supplier) error {
	return GetDB(ctx, r.db).Save(supplier).Error
}

func (r *supplierRepository) Delete(ctx context.Context, id uint) error {
	return GetDB(ctx, r.db).Delete(&model.Supplier{}, id).Error
}

func (r *supplierRepository) List(ctx context.Context, limit, offset int) ([]model.Supplier, int64, error) {
	var suppliers []model.Supplier
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Supplier{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Order("id").Offset(offset).Limit(limit).Find(&suppliers).Error; err != nil {
		return nil, 0, err
	}
	return suppliers, total, nil
}

// ClearProductAssociations removes all product_suppliers rows for a
// supplier. Product rows themselves are left untouched.
func (r *supplierRepository) ClearProductAssociations(ctx context.Context, supplierID uint) error {
	return GetDB(ctx, r.db).Exec("DELETE FROM product_suppliers WHERE supplier_id = ?", supplierID).Error
}
