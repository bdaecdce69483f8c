package service

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"inventra/internal/model"
	"inventra/internal/repository"
	"inventra/internal/token"
	"inventra/pkg/apperr"
)

func newAuthService(db *gorm.DB) AuthService {
	tokens := token.NewManager([]byte("test-secret"), 15*time.Minute, 7*24*time.Hour)
	return NewAuthService(
		repository.NewUserRepository(db),
		repository.NewSupplierRepository(db),
		tokens,
	)
}

func seedUser(t *testing.T, db *gorm.DB, username, password string, role model.Role) *model.User {
	t.Helper()
	hashed, err := token.HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := model.User{Username: username, Password: hashed, Role: role}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return &user
}

func TestLoginAndRefresh(t *testing.T) {
	db := setupDB(t)
	svc := newAuthService(db)
	seedUser(t, db, "admin", "admin123", model.RoleAdmin)

	if _, err := svc.Login(ctx, "admin", "wrong"); !apperr.Is(err, apperr.CodeInvalidCredentials) {
		t.Fatalf("expected INVALID_CREDENTIALS, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody", "admin123"); !apperr.Is(err, apperr.CodeInvalidCredentials) {
		t.Fatalf("expected INVALID_CREDENTIALS for unknown user, got %v", err)
	}

	pair, err := svc.Login(ctx, "admin", "admin123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" || pair.TokenType != "bearer" {
		t.Fatalf("incomplete token pair: %+v", pair)
	}

	// Refresh accepts only refresh tokens.
	if _, err := svc.Refresh(ctx, pair.AccessToken); !apperr.Is(err, apperr.CodeInvalidToken) {
		t.Fatalf("access token must not refresh, got %v", err)
	}
	next, err := svc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if next.AccessToken == "" || next.RefreshToken == "" {
		t.Fatalf("incomplete refreshed pair: %+v", next)
	}
}

func TestRefresh_DeletedAccountRejected(t *testing.T) {
	db := setupDB(t)
	svc := newAuthService(db)
	user := seedUser(t, db, "supplier_1", "supplier123", model.RoleSupplier)

	pair, err := svc.Login(ctx, "supplier_1", "supplier123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := db.Delete(&model.User{}, user.ID).Error; err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if _, err := svc.Refresh(ctx, pair.RefreshToken); !apperr.Is(err, apperr.CodeInvalidToken) {
		t.Fatalf("expected INVALID_TOKEN for deleted account, got %v", err)
	}
}

func TestCurrentUser(t *testing.T) {
	db := setupDB(t)
	svc := newAuthService(db)
	user := seedUser(t, db, "supplier_1", "supplier123", model.RoleSupplier)
	user.MustChangePassword = true
	if err := db.Save(user).Error; err != nil {
		t.Fatalf("save: %v", err)
	}

	res, err := svc.CurrentUser(ctx, "supplier_1")
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if res.Username != "supplier_1" || res.Role != model.RoleSupplier || !res.MustChangePassword {
		t.Fatalf("unexpected identity: %+v", res)
	}

	if _, err := svc.CurrentUser(ctx, "ghost"); !apperr.Is(err, apperr.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestResolveCaller_LinksSupplierRecord(t *testing.T) {
	db := setupDB(t)
	svc := newAuthService(db)

	user := seedUser(t, db, "supplier_1", "supplier123", model.RoleSupplier)
	supplier := model.Supplier{Name: "Acme Parts", UserID: &user.ID}
	if err := db.Create(&supplier).Error; err != nil {
		t.Fatalf("seed supplier: %v", err)
	}

	caller, err := svc.ResolveCaller(ctx, "supplier_1", model.RoleSupplier)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if caller.SupplierID == nil || *caller.SupplierID != supplier.ID {
		t.Fatalf("supplier link not resolved: %+v", caller.SupplierID)
	}

	// Admins carry no supplier link; supplier-role users without a record
	// resolve with none and simply own nothing.
	caller, err = svc.ResolveCaller(ctx, "admin", model.RoleAdmin)
	if err != nil || caller.SupplierID != nil {
		t.Fatalf("unexpected admin caller: %+v, %v", caller, err)
	}
	caller, err = svc.ResolveCaller(ctx, "orphan", model.RoleSupplier)
	if err != nil || caller.SupplierID != nil {
		t.Fatalf("unexpected orphan caller: %+v, %v", caller, err)
	}
}
