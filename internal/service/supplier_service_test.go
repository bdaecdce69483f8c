package service

import (
	"fmt"
	"testing"

	"inventra/internal/model"
	"inventra/internal/token"
	"inventra/pkg/apperr"
)

func TestCreateSupplier_ProvisionsLinkedUser(t *testing.T) {
	db := setupDB(t)
	svc := newSupplierService(db)

	res, err := svc.Create(ctx, adminCaller(), CreateSupplierRequest{Name: "Acme Parts", Rating: fptr(4.5)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	wantUsername := fmt.Sprintf("supplier_%d", res.ID)
	if res.Username != wantUsername {
		t.Fatalf("expected username %q, got %q", wantUsername, res.Username)
	}

	var user model.User
	if err := db.First(&user, "username = ?", wantUsername).Error; err != nil {
		t.Fatalf("provisioned user missing: %v", err)
	}
	if user.Role != model.RoleSupplier {
		t.Fatalf("expected role supplier, got %q", user.Role)
	}
	if !user.MustChangePassword {
		t.Fatalf("provisioned user should be flagged for password change")
	}
	if !token.CheckPassword(user.Password, DefaultSupplierPassword) {
		t.Fatalf("provisioned password is not the hashed default")
	}

	var supplier model.Supplier
	if err := db.First(&supplier, res.ID).Error; err != nil {
		t.Fatalf("fetch supplier: %v", err)
	}
	if supplier.UserID == nil || *supplier.UserID != user.ID {
		t.Fatalf("supplier not linked to provisioned user: %+v", supplier.UserID)
	}
}

func TestCreateSupplier_AdminOnlyAndValidated(t *testing.T) {
	db := setupDB(t)
	svc := newSupplierService(db)

	if _, err := svc.Create(ctx, supplierCaller("supplier_1", 1), CreateSupplierRequest{Name: "Acme Parts"}); !apperr.Is(err, apperr.CodePermissionDenied) {
		t.Fatalf("expected PERMISSION_DENIED, got %v", err)
	}
	if _, err := svc.Create(ctx, adminCaller(), CreateSupplierRequest{Name: "ab"}); !apperr.Is(err, apperr.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR for short name, got %v", err)
	}
	if _, err := svc.Create(ctx, adminCaller(), CreateSupplierRequest{Name: "Acme Parts", Rating: fptr(5.5)}); !apperr.Is(err, apperr.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR for rating, got %v", err)
	}
}

func TestUpdateSupplier_PartialMerge(t *testing.T) {
	db := setupDB(t)
	svc := newSupplierService(db)

	created, err := svc.Create(ctx, adminCaller(), CreateSupplierRequest{Name: "Acme Parts", Contact: sptr("old@acme.test")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	res, err := svc.Update(ctx, adminCaller(), created.ID, UpdateSupplierRequest{Contact: sptr("new@acme.test")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if res.Name != "Acme Parts" {
		t.Fatalf("unchanged field was overwritten: %q", res.Name)
	}
	if res.Contact == nil || *res.Contact != "new@acme.test" {
		t.Fatalf("contact not merged: %+v", res.Contact)
	}

	if _, err := svc.Update(ctx, adminCaller(), 999, UpdateSupplierRequest{}); !apperr.Is(err, apperr.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestDeleteSupplier_CascadesButProductsSurvive(t *testing.T) {
	db := setupDB(t)
	supplierSvc := newSupplierService(db)
	productSvc := newProductService(db)

	created, err := supplierSvc.Create(ctx, adminCaller(), CreateSupplierRequest{Name: "Acme Parts"})
	if err != nil {
		t.Fatalf("create supplier: %v", err)
	}

	// Two products exclusively tied to this supplier.
	createProduct(t, productSvc, "Widget", 19.99, 10, created.ID)
	createProduct(t, productSvc, "Gadget", 29.99, 5, created.ID)

	if err := supplierSvc.Delete(ctx, adminCaller(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var n int64
	if err := db.Model(&model.Supplier{}).Where("id = ?", created.ID).Count(&n).Error; err != nil || n != 0 {
		t.Fatalf("supplier row still present (n=%d, err=%v)", n, err)
	}
	if err := db.Model(&model.User{}).Where("username = ?", created.Username).Count(&n).Error; err != nil || n != 0 {
		t.Fatalf("linked user still present (n=%d, err=%v)", n, err)
	}
	if n := associationCount(t, db, created.ID); n != 0 {
		t.Fatalf("association rows still present: %d", n)
	}
	// Products survive with an empty supplier set — uniform cascade policy.
	if n := productCount(t, db); n != 2 {
		t.Fatalf("products did not survive supplier deletion, %d left", n)
	}
}

func TestDeleteSupplier_AdminOnlyAndNotFound(t *testing.T) {
	db := setupDB(t)
	svc := newSupplierService(db)

	if err := svc.Delete(ctx, userCaller(), 1); !apperr.Is(err, apperr.CodePermissionDenied) {
		t.Fatalf("expected PERMISSION_DENIED, got %v", err)
	}
	if err := svc.Delete(ctx, adminCaller(), 999); !apperr.Is(err, apperr.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestListSuppliers_PaginationValidation(t *testing.T) {
	db := setupDB(t)
	svc := newSupplierService(db)

	for i := 0; i < 3; i++ {
		mustCreateSupplier(t, db, fmt.Sprintf("Supplier %d", i))
	}

	items, total, err := svc.List(ctx, 2, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 || len(items) != 2 {
		t.Fatalf("expected total=3 page=2, got total=%d len=%d", total, len(items))
	}

	if _, _, err := svc.List(ctx, 0, 0); !apperr.Is(err, apperr.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR for limit=0, got %v", err)
	}
	if _, _, err := svc.List(ctx, 10, -1); !apperr.Is(err, apperr.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR for negative offset, got %v", err)
	}
}
