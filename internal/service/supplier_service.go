package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"inventra/internal/authz"
	"inventra/internal/model"
	"inventra/internal/repository"
	"inventra/internal/token"
	"inventra/pkg/apperr"
	"inventra/pkg/pagination"
)

// DefaultSupplierPassword is the well-known initial password of
// auto-provisioned supplier accounts. The provisioned user carries
// must_change_password=true so the dashboard forces a rotation on first
// login.
const DefaultSupplierPassword = "supplier123"

type CreateSupplierRequest struct {
	Name    string   `json:"name" binding:"required"`
	Contact *string  `json:"contact"`
	Rating  *float64 `json:"rating"`
}

type UpdateSupplierRequest struct {
	Name    *string  `json:"name"`
	Contact *string  `json:"contact"`
	Rating  *float64 `json:"rating"`
}

type SupplierResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Contact   *string   `json:"contact,omitempty"`
	Rating    *float64  `json:"rating,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateSupplierResponse additionally reports the provisioned login so the
// admin can hand it over and have the default password changed.
type CreateSupplierResponse struct {
	SupplierResponse
	Username string `json:"username"`
	Notice   string `json:"notice"`
}

// SupplierService handles the admin-only supplier CRUD including the
// provisioning and cascading removal of the linked supplier user.
type SupplierService interface {
	Create(ctx context.Context, caller authz.Caller, req CreateSupplierRequest) (*CreateSupplierResponse, error)
	Get(ctx context.Context, id uint) (*SupplierResponse, error)
	List(ctx context.Context, limit, offset int) ([]SupplierResponse, int64, error)
	Update(ctx context.Context, caller authz.Caller, id uint, req UpdateSupplierRequest) (*SupplierResponse, error)
	Delete(ctx context.Context, caller authz.Caller, id uint) error
}

type supplierService struct {
	supplierRepo repository.SupplierRepository
	userRepo     repository.UserRepository
	txManager    repository.TransactionManager
}

func NewSupplierService(
	supplierRepo repository.SupplierRepository,
	userRepo repository.UserRepository,
	txManager repository.TransactionManager,
) SupplierService {
	return &supplierService{supplierRepo: supplierRepo, userRepo: userRepo, txManager: txManager}
}

func validateSupplierName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < 3 || n > 100 {
		return apperr.Validation("name must be between 3 and 100 characters")
	}
	return nil
}

func validateRating(rating *float64) error {
	if rating != nil && (*rating < 0 || *rating > 5) {
		return apperr.Validation("rating must be between 0 and 5")
	}
	return nil
}

func (s *supplierService) Create(ctx context.Context, caller authz.Caller, req CreateSupplierRequest) (*CreateSupplierResponse, error) {
	if err := authz.CanManageSuppliers(caller); err != nil {
		return nil, err
	}
	if err := validateSupplierName(req.Name); err != nil {
		return nil, err
	}
	if err := validateRating(req.Rating); err != nil {
		return nil, err
	}

	supplier := model.Supplier{Name: req.Name, Contact: req.Contact, Rating: req.Rating}
	var username string

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.supplierRepo.Create(txCtx, &supplier); err != nil {
			return apperr.Storage(err)
		}

		hashed, err := token.HashPassword(DefaultSupplierPassword)
		if err != nil {
			return apperr.Storage(err)
		}

		username = fmt.Sprintf("supplier_%d", supplier.ID)
		user := model.User{
			Username:           username,
			Password:           hashed,
			Role:               model.RoleSupplier,
			MustChangePassword: true,
		}
		if err := s.userRepo.Create(txCtx, &user); err != nil {
			return apperr.Storage(err)
		}

		supplier.UserID = &user.ID
		if err := s.supplierRepo.Update(txCtx, &supplier); err != nil {
			return apperr.Storage(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &CreateSupplierResponse{
		SupplierResponse: mapSupplier(&supplier),
		Username:         username,
		Notice:           "account created with the default password; it must be changed on first login",
	}, nil
}

func (s *supplierService) Get(ctx context.Context, id uint) (*SupplierResponse, error) {
	supplier, err := s.findSupplier(ctx, id)
	if err != nil {
		return nil, err
	}
	res := mapSupplier(supplier)
	return &res, nil
}

func (s *supplierService) List(ctx context.Context, limit, offset int) ([]SupplierResponse, int64, error) {
	params, err := pagination.Validate(limit, offset)
	if err != nil {
		return nil, 0, err
	}

	suppliers, total, err := s.supplierRepo.List(ctx, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, apperr.Storage(err)
	}

	res := make([]SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		res = append(res, mapSupplier(&suppliers[i]))
	}
	return res, total, nil
}

func (s *supplierService) Update(ctx context.Context, caller authz.Caller, id uint, req UpdateSupplierRequest) (*SupplierResponse, error) {
	if err := authz.CanManageSuppliers(caller); err != nil {
		return nil, err
	}

	supplier, err := s.findSupplier(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := validateSupplierName(*req.Name); err != nil {
			return nil, err
		}
		supplier.Name = *req.Name
	}
	if req.Contact != nil {
		supplier.Contact = req.Contact
	}
	if req.Rating != nil {
		if err := validateRating(req.Rating); err != nil {
			return nil, err
		}
		supplier.Rating = req.Rating
	}

	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, apperr.Storage(err)
	}

	res := mapSupplier(supplier)
	return &res, nil
}

// Delete cascades in one transaction: the supplier's association rows and
// its linked user go, product rows always survive — even when this was
// their only supplier.
func (s *supplierService) Delete(ctx context.Context, caller authz.Caller, id uint) error {
	if err := authz.CanManageSuppliers(caller); err != nil {
		return err
	}

	supplier, err := s.findSupplier(ctx, id)
	if err != nil {
		return err
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.supplierRepo.ClearProductAssociations(txCtx, supplier.ID); err != nil {
			return apperr.Storage(err)
		}
		if err := s.supplierRepo.Delete(txCtx, supplier.ID); err != nil {
			return apperr.Storage(err)
		}
		if supplier.UserID != nil {
			if err := s.userRepo.Delete(txCtx, *supplier.UserID); err != nil {
				return apperr.Storage(err)
			}
		}
		return nil
	})
}

func (s *supplierService) findSupplier(ctx context.Context, id uint) (*model.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("supplier %d not found", id)
		}
		return nil, apperr.Storage(err)
	}
	return supplier, nil
}

func mapSupplier(s *model.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:        s.ID,
		Name:      s.Name,
		Contact:   s.Contact,
		Rating:    s.Rating,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
