package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"inventra/internal/model"
)

// HistoryRepository defines data access for the append-only History rows.
type HistoryRepository interface {
	Append(ctx context.Context, rows []model.History) error
	ListByProduct(ctx context.Context, productID uint, from, to *time.Time) ([]model.History, error)
	DeleteByProduct(ctx context.Context, productID uint) error
}

type historyRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Append(ctx context.Context, rows []model.History) error {
	if len(rows) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Create(&rows).Error
}

// ListByProduct returns history rows newest-first, optionally bounded by
// an inclusive [from, to] timestamp window.
func (r *historyRepository) ListByProduct(ctx context.Context, productID uint, from, to *time.Time) ([]model.History, error) {
	var rows []model.History

	db := GetDB(ctx, r.db).Where("product_id = ?", productID)
	if from != nil {
		db = db.Where("created_at >= ?", *from)
	}
	if to != nil {
		db = db.Where("created_at <= ?", *to)
	}

	if err := db.Order("created_at desc, id desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteByProduct removes every history row of a product. Only called from
// product deletion — history is never trimmed otherwise.
func (r *historyRepository) DeleteByProduct(ctx context.Context, productID uint) error {
	return GetDB(ctx, r.db).Where("product_id = ?", productID).Delete(&model.History{}).Error
}
