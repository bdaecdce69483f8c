package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"inventra/internal/authz"
	"inventra/internal/model"
	"inventra/internal/repository"
	"inventra/internal/token"
	"inventra/pkg/apperr"
)

type CurrentUserResponse struct {
	Username           string     `json:"username"`
	Role               model.Role `json:"role"`
	MustChangePassword bool       `json:"must_change_password"`
}

// AuthService handles login, stateless token refresh and caller identity
// resolution.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*token.Pair, error)
	Refresh(ctx context.Context, refreshToken string) (*token.Pair, error)
	CurrentUser(ctx context.Context, username string) (*CurrentUserResponse, error)
	// ResolveCaller turns validated token claims into an authorization
	// principal, looking up the linked supplier for supplier-role callers.
	ResolveCaller(ctx context.Context, username string, role model.Role) (authz.Caller, error)
}

type authService struct {
	userRepo     repository.UserRepository
	supplierRepo repository.SupplierRepository
	tokens       *token.Manager
}

func NewAuthService(userRepo repository.UserRepository, supplierRepo repository.SupplierRepository, tokens *token.Manager) AuthService {
	return &authService{userRepo: userRepo, supplierRepo: supplierRepo, tokens: tokens}
}

func (s *authService) Login(ctx context.Context, username, password string) (*token.Pair, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		// Same answer for unknown user and bad password.
		return nil, apperr.Unauthorized(apperr.CodeInvalidCredentials, "invalid username or password")
	}
	if !token.CheckPassword(user.Password, password) {
		return nil, apperr.Unauthorized(apperr.CodeInvalidCredentials, "invalid username or password")
	}

	pair, err := s.tokens.GeneratePair(user.Username, user.Role)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return &pair, nil
}

// Refresh exchanges a valid, unexpired refresh token for a new pair. There
// is no server-side session state; expiry bounds the token's lifetime.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*token.Pair, error) {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	// The account may have been removed since the token was issued
	// (supplier deletion cascades onto its user).
	user, err := s.userRepo.GetByUsername(ctx, claims.Username)
	if err != nil {
		return nil, apperr.Unauthorized(apperr.CodeInvalidToken, "account no longer exists")
	}

	pair, err := s.tokens.GeneratePair(user.Username, user.Role)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return &pair, nil
}

func (s *authService) CurrentUser(ctx context.Context, username string) (*CurrentUserResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %q not found", username)
		}
		return nil, apperr.Storage(err)
	}
	return &CurrentUserResponse{
		Username:           user.Username,
		Role:               user.Role,
		MustChangePassword: user.MustChangePassword,
	}, nil
}

func (s *authService) ResolveCaller(ctx context.Context, username string, role model.Role) (authz.Caller, error) {
	caller := authz.Caller{Username: username, Role: role}
	if role != model.RoleSupplier {
		return caller, nil
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return caller, nil
		}
		return caller, apperr.Storage(err)
	}

	supplier, err := s.supplierRepo.FindByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Supplier-role user without a linked supplier record: allowed,
			// they just own nothing.
			return caller, nil
		}
		return caller, apperr.Storage(err)
	}

	caller.SupplierID = &supplier.ID
	return caller, nil
}
