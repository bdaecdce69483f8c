package token

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"inventra/internal/model"
	"inventra/pkg/apperr"
)

const (
	typeAccess  = "access"
	typeRefresh = "refresh"
)

// Claims is the identity carried by a validated token.
type Claims struct {
	Username string
	Role     model.Role
}

// Pair is an issued access/refresh token pair.
type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// Manager issues and validates HS256-signed access and refresh tokens.
// Tokens are stateless — expiry is the only bound on their lifetime, there
// is no server-side revocation list.
type Manager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewManager(secret []byte, accessTTL, refreshTTL time.Duration) *Manager {
	return &Manager{secret: secret, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// Secret resolves the signing secret from the environment. The fallback is
// for development only and refused in release mode.
func Secret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("FATAL: JWT_SECRET environment variable is required in production mode")
		}
		secret = "default_super_secret_key" // Development fallback only — DO NOT use in production
	}
	return []byte(secret)
}

// GeneratePair issues a fresh access/refresh pair for the given principal.
func (m *Manager) GeneratePair(username string, role model.Role) (Pair, error) {
	access, err := m.sign(username, role, typeAccess, m.accessTTL)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := m.sign(username, role, typeRefresh, m.refreshTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

func (m *Manager) sign(username string, role model.Role, typ string, ttl time.Duration) (string, error) {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  username,
		"role": string(role),
		"typ":  typ,
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	})
	return tok.SignedString(m.secret)
}

// ParseAccess validates an access token and returns its claims.
func (m *Manager) ParseAccess(tokenString string) (*Claims, error) {
	return m.parse(tokenString, typeAccess)
}

// ParseRefresh validates a refresh token and returns its claims. Access
// tokens are rejected here so a leaked short-lived token cannot be used to
// mint new pairs.
func (m *Manager) ParseRefresh(tokenString string) (*Claims, error) {
	return m.parse(tokenString, typeRefresh)
}

func (m *Manager) parse(tokenString, wantType string) (*Claims, error) {
	tok, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, apperr.Unauthorized(apperr.CodeInvalidToken, "invalid or expired token")
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperr.Unauthorized(apperr.CodeInvalidToken, "invalid token claims")
	}

	if typ, _ := claims["typ"].(string); typ != wantType {
		return nil, apperr.Unauthorized(apperr.CodeInvalidToken, "wrong token type")
	}

	username, _ := claims["sub"].(string)
	roleStr, _ := claims["role"].(string)
	role := model.Role(roleStr)
	if username == "" || !role.Valid() {
		return nil, apperr.Unauthorized(apperr.CodeInvalidToken, "token missing subject or role")
	}

	return &Claims{Username: username, Role: role}, nil
}
