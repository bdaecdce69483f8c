package model

import (
	"time"
)

// Supplier represents a vendor that can own products. A supplier may be
// linked to exactly one User (role=supplier) which is auto-provisioned on
// creation and removed again when the supplier is deleted.
type Supplier struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Contact   *string   `gorm:"type:varchar(255)" json:"contact,omitempty"`
	Rating    *float64  `gorm:"type:decimal(3,1)" json:"rating,omitempty"` // 0–5
	UserID    *uint     `gorm:"uniqueIndex" json:"user_id,omitempty"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
