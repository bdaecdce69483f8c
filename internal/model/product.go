package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Price and Discount are stored as fixed-point
// decimals so history comparisons can normalize to 2 decimal places without
// float drift.
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(100);not null;index" json:"name"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Description *string         `gorm:"type:text" json:"description,omitempty"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	Category    *string         `gorm:"type:varchar(100);index" json:"category,omitempty"`
	Discount    decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"discount"` // percent, 0–100
	Suppliers   []Supplier      `gorm:"many2many:product_suppliers;constraint:OnDelete:CASCADE" json:"suppliers"`
	CreatedAt   time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// SupplierIDs returns the ids of the product's current supplier set.
func (p *Product) SupplierIDs() []uint {
	ids := make([]uint, 0, len(p.Suppliers))
	for _, s := range p.Suppliers {
		ids = append(ids, s.ID)
	}
	return ids
}
