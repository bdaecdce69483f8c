// Package authz holds the pure authorization policy: stateless decision
// functions mapping (caller role, caller's linked supplier, target product's
// supplier set) to allow/deny. Authentication happens earlier, in the
// middleware — by the time these run the caller is already identified.
package authz

import (
	"inventra/internal/model"
	"inventra/pkg/apperr"
)

// Caller identifies an authenticated request principal.
type Caller struct {
	Username string
	Role     model.Role
	// SupplierID is set only for supplier-role callers that have a linked
	// supplier record.
	SupplierID *uint
}

// Owns reports whether the caller's linked supplier is part of the
// product's current supplier set.
func (c Caller) Owns(supplierIDs []uint) bool {
	if c.SupplierID == nil {
		return false
	}
	for _, id := range supplierIDs {
		if id == *c.SupplierID {
			return true
		}
	}
	return false
}

// CanCreateProduct decides product creation.
func CanCreateProduct(c Caller) error {
	switch c.Role {
	case model.RoleAdmin, model.RoleSupplier:
		return nil
	case model.RoleUser:
		return apperr.PermissionDenied("role %q may not create products", c.Role)
	}
	return apperr.PermissionDenied("unknown role %q", c.Role)
}

// CanMutateProduct decides update and delete on an existing product with
// the given supplier set.
func CanMutateProduct(c Caller, supplierIDs []uint) error {
	switch c.Role {
	case model.RoleAdmin:
		return nil
	case model.RoleSupplier:
		if c.Owns(supplierIDs) {
			return nil
		}
		return apperr.PermissionDenied("supplier %q does not own this product", c.Username)
	case model.RoleUser:
		return apperr.PermissionDenied("role %q is read-only", c.Role)
	}
	return apperr.PermissionDenied("unknown role %q", c.Role)
}

// CanReadHistory decides access to a product's change history. Same
// ownership rule as mutation: admins always, suppliers only on their own
// products, plain users never.
func CanReadHistory(c Caller, supplierIDs []uint) error {
	switch c.Role {
	case model.RoleAdmin:
		return nil
	case model.RoleSupplier:
		if c.Owns(supplierIDs) {
			return nil
		}
		return apperr.PermissionDenied("supplier %q does not own this product", c.Username)
	case model.RoleUser:
		return apperr.PermissionDenied("role %q may not read product history", c.Role)
	}
	return apperr.PermissionDenied("unknown role %q", c.Role)
}

// CanManageSuppliers decides supplier create/update/delete. Admin only.
func CanManageSuppliers(c Caller) error {
	if c.Role == model.RoleAdmin {
		return nil
	}
	return apperr.PermissionDenied("role %q may not manage suppliers", c.Role)
}

// CanAssignSuppliers reports whether the caller may set a product's
// supplier set explicitly. For supplier-role callers the field is silently
// dropped instead of rejected, so this returns a bool rather than an error.
func CanAssignSuppliers(c Caller) bool {
	return c.Role == model.RoleAdmin
}
