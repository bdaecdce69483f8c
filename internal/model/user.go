package model

import (
	"time"
)

// Role is the fixed capability tier of a caller. The set is closed: every
// authorization decision switches exhaustively over these three values and
// denies anything else.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleSupplier Role = "supplier"
	RoleUser     Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSupplier, RoleUser:
		return true
	}
	return false
}

// User represents an account that can authenticate against the API.
// Role is immutable after creation — no endpoint changes it.
type User struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Username           string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	Password           string    `gorm:"type:varchar(255);not null" json:"-"` // bcrypt hash, never serialized
	Role               Role      `gorm:"type:varchar(20);not null" json:"role"`
	MustChangePassword bool      `gorm:"default:false" json:"must_change_password"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
