package authz

import (
	"testing"

	"inventra/internal/model"
)

func uptr(v uint) *uint { return &v }

func TestCanCreateProduct(t *testing.T) {
	if err := CanCreateProduct(Caller{Role: model.RoleAdmin}); err != nil {
		t.Fatalf("admin should create: %v", err)
	}
	if err := CanCreateProduct(Caller{Role: model.RoleSupplier}); err != nil {
		t.Fatalf("supplier should create: %v", err)
	}
	if err := CanCreateProduct(Caller{Role: model.RoleUser}); err == nil {
		t.Fatalf("user must not create")
	}
	if err := CanCreateProduct(Caller{Role: "superuser"}); err == nil {
		t.Fatalf("unknown role must be denied")
	}
}

func TestCanMutateProduct_Ownership(t *testing.T) {
	owned := []uint{1, 2}

	if err := CanMutateProduct(Caller{Role: model.RoleAdmin}, owned); err != nil {
		t.Fatalf("admin always allowed: %v", err)
	}
	if err := CanMutateProduct(Caller{Role: model.RoleSupplier, SupplierID: uptr(2)}, owned); err != nil {
		t.Fatalf("owning supplier allowed: %v", err)
	}
	if err := CanMutateProduct(Caller{Role: model.RoleSupplier, SupplierID: uptr(3)}, owned); err == nil {
		t.Fatalf("foreign supplier must be denied")
	}
	if err := CanMutateProduct(Caller{Role: model.RoleSupplier}, owned); err == nil {
		t.Fatalf("supplier without linked record owns nothing")
	}
	if err := CanMutateProduct(Caller{Role: model.RoleUser}, owned); err == nil {
		t.Fatalf("user role is read-only")
	}
}

func TestCanReadHistory(t *testing.T) {
	owned := []uint{7}

	if err := CanReadHistory(Caller{Role: model.RoleAdmin}, owned); err != nil {
		t.Fatalf("admin allowed: %v", err)
	}
	if err := CanReadHistory(Caller{Role: model.RoleSupplier, SupplierID: uptr(7)}, owned); err != nil {
		t.Fatalf("owner allowed: %v", err)
	}
	if err := CanReadHistory(Caller{Role: model.RoleSupplier, SupplierID: uptr(8)}, owned); err == nil {
		t.Fatalf("foreign supplier denied")
	}
	if err := CanReadHistory(Caller{Role: model.RoleUser}, owned); err == nil {
		t.Fatalf("user role denied entirely")
	}
}

func TestCanManageSuppliers(t *testing.T) {
	if err := CanManageSuppliers(Caller{Role: model.RoleAdmin}); err != nil {
		t.Fatalf("admin allowed: %v", err)
	}
	for _, role := range []model.Role{model.RoleSupplier, model.RoleUser, "ghost"} {
		if err := CanManageSuppliers(Caller{Role: role}); err == nil {
			t.Fatalf("role %q must be denied", role)
		}
	}
}

func TestCanAssignSuppliers(t *testing.T) {
	if !CanAssignSuppliers(Caller{Role: model.RoleAdmin}) {
		t.Fatalf("admin may assign supplier sets")
	}
	if CanAssignSuppliers(Caller{Role: model.RoleSupplier, SupplierID: uptr(1)}) {
		t.Fatalf("supplier may never assign supplier sets")
	}
	if CanAssignSuppliers(Caller{Role: model.RoleUser}) {
		t.Fatalf("user may never assign supplier sets")
	}
}
