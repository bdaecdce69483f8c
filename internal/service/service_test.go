package service

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"inventra/internal/authz"
	"inventra/internal/model"
	"inventra/internal/repository"
)

// setupDB opens an isolated in-memory database with the full schema.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// One connection so every query sees the same in-memory database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.User{}, &model.Supplier{}, &model.Product{}, &model.History{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newProductService(db *gorm.DB) ProductService {
	return NewProductService(
		repository.NewProductRepository(db),
		repository.NewSupplierRepository(db),
		repository.NewHistoryRepository(db),
		repository.NewTransactionManager(db),
		nil,
	)
}

func newSupplierService(db *gorm.DB) SupplierService {
	return NewSupplierService(
		repository.NewSupplierRepository(db),
		repository.NewUserRepository(db),
		repository.NewTransactionManager(db),
	)
}

func adminCaller() authz.Caller {
	return authz.Caller{Username: "admin", Role: model.RoleAdmin}
}

func userCaller() authz.Caller {
	return authz.Caller{Username: "user1", Role: model.RoleUser}
}

func supplierCaller(username string, supplierID uint) authz.Caller {
	return authz.Caller{Username: username, Role: model.RoleSupplier, SupplierID: &supplierID}
}

func mustCreateSupplier(t *testing.T, db *gorm.DB, name string) *model.Supplier {
	t.Helper()
	supplier := model.Supplier{Name: name}
	if err := db.Create(&supplier).Error; err != nil {
		t.Fatalf("seed supplier: %v", err)
	}
	return &supplier
}

func iptr(v int) *int { return &v }

func fptr(v float64) *float64 { return &v }

func sptr(v string) *string { return &v }

func productCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&model.Product{}).Count(&n).Error; err != nil {
		t.Fatalf("count products: %v", err)
	}
	return n
}

func historyCount(t *testing.T, db *gorm.DB, productID uint) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&model.History{}).Where("product_id = ?", productID).Count(&n).Error; err != nil {
		t.Fatalf("count history: %v", err)
	}
	return n
}

func associationCount(t *testing.T, db *gorm.DB, supplierID uint) int64 {
	t.Helper()
	var n int64
	if err := db.Table("product_suppliers").Where("supplier_id = ?", supplierID).Count(&n).Error; err != nil {
		t.Fatalf("count associations: %v", err)
	}
	return n
}

var ctx = context.Background()
