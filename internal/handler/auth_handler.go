package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inventra/internal/middleware"
	"inventra/internal/service"
	"inventra/internal/token"
	"inventra/pkg/response"
)

type AuthHandler struct {
	authService service.AuthService
	tokens      *token.Manager
}

func NewAuthHandler(authService service.AuthService, tokens *token.Manager) *AuthHandler {
	return &AuthHandler{authService: authService, tokens: tokens}
}

// RegisterRoutes binds the auth endpoints to the router group.
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/login", h.Login)
	router.POST("/refresh", h.Refresh)
	router.GET("/current_user", middleware.RequireAuth(h.tokens), h.CurrentUser)
}

type loginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Login authenticates with form-encoded credentials and returns a token pair
// @Summary      Login
// @Description  Authenticates a user by username and password, returning access and refresh tokens
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username  formData  string  true  "Username"
// @Param        password  formData  string  true  "Password"
// @Success      200  {object}  token.Pair
// @Failure      400  {object}  response.Envelope
// @Failure      401  {object}  response.Envelope
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, response.Err("VALIDATION_ERROR", "username and password are required"))
		return
	}

	pair, err := h.authService.Login(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	middleware.SetTokenCookies(c, *pair)
	c.JSON(http.StatusOK, pair)
}

// Refresh exchanges a refresh token for a new pair
// @Summary      Refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      refreshRequest  true  "Refresh token"
// @Success      200  {object}  token.Pair
// @Failure      401  {object}  response.Envelope
// @Router       /refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Fall back to the cookie set at login.
		cookie, cookieErr := c.Cookie("refresh_token")
		if cookieErr != nil || cookie == "" {
			c.JSON(http.StatusBadRequest, response.Err("VALIDATION_ERROR", "refresh_token is required"))
			return
		}
		req.RefreshToken = cookie
	}

	pair, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		writeError(c, err)
		return
	}

	middleware.SetTokenCookies(c, *pair)
	c.JSON(http.StatusOK, pair)
}

// CurrentUser returns the authenticated caller's identity
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  service.CurrentUserResponse
// @Failure      401  {object}  response.Envelope
// @Router       /current_user [get]
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	username := c.GetString(middleware.CtxUsername)
	user, err := h.authService.CurrentUser(c.Request.Context(), username)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
