package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"inventra/internal/model"
)

// NewConnection initializes a new connection pool using GORM.
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}

// Migrate creates or updates the schema: user, supplier, product, history
// plus the product_suppliers association table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Supplier{},
		&model.Product{},
		&model.History{},
	)
}
