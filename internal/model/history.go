package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tracked fields for History rows.
const (
	HistoryFieldPrice = "price"
	HistoryFieldStock = "stock"
)

// History records one value transition of a tracked product field.
// Rows are append-only — they are never updated, and only removed when the
// owning product is deleted.
type History struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	Product   Product         `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	Field     string          `gorm:"type:varchar(20);not null" json:"field"` // price, stock
	OldValue  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"old_value"`
	NewValue  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"new_value"`
	ChangedBy string          `gorm:"type:varchar(255);not null" json:"changed_by"`
	CreatedAt time.Time       `gorm:"autoCreateTime;index" json:"timestamp"`
}
