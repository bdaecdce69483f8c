package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inventra/internal/middleware"
	"inventra/internal/model"
	"inventra/internal/service"
	"inventra/internal/token"
	"inventra/pkg/pagination"
	"inventra/pkg/response"
)

type SupplierHandler struct {
	supplierService service.SupplierService
	authService     service.AuthService
	tokens          *token.Manager
}

func NewSupplierHandler(supplierService service.SupplierService, authService service.AuthService, tokens *token.Manager) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService, authService: authService, tokens: tokens}
}

// RegisterRoutes binds the supplier endpoints. Reads are public,
// mutations are admin-only.
func (h *SupplierHandler) RegisterRoutes(router *gin.RouterGroup) {
	admin := middleware.RequireRole(h.tokens, model.RoleAdmin)

	suppliers := router.Group("/supplier")
	{
		suppliers.GET("", h.List)
		suppliers.GET("/:id", h.Get)
		suppliers.POST("", admin, h.Create)
		suppliers.PUT("/:id", admin, h.Update)
		suppliers.DELETE("/:id", admin, h.Delete)
	}
}

// Create adds a supplier and provisions its login
// @Summary      Create supplier
// @Description  Creates a supplier and auto-provisions a linked supplier_<id> user with the default password
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateSupplierRequest  true  "Supplier"
// @Success      200  {object}  service.CreateSupplierResponse
// @Failure      400  {object}  response.Envelope
// @Failure      403  {object}  response.Envelope
// @Router       /supplier [post]
func (h *SupplierHandler) Create(c *gin.Context) {
	var req service.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Err("VALIDATION_ERROR", "invalid request payload: "+err.Error()))
		return
	}

	caller, err := resolveCaller(c, h.authService)
	if err != nil {
		writeError(c, err)
		return
	}

	supplier, err := h.supplierService.Create(c.Request.Context(), caller, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, supplier)
}

// Get returns one supplier
// @Summary      Get supplier
// @Tags         suppliers
// @Produce      json
// @Param        id  path  int  true  "Supplier ID"
// @Success      200  {object}  service.SupplierResponse
// @Failure      404  {object}  response.Envelope
// @Router       /supplier/{id} [get]
func (h *SupplierHandler) Get(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		writeError(c, err)
		return
	}

	supplier, err := h.supplierService.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, supplier)
}

// List returns a paginated supplier listing
// @Summary      List suppliers
// @Tags         suppliers
// @Produce      json
// @Param        limit   query  int  false  "Page size (1-100, default 10)"
// @Param        offset  query  int  false  "Offset (>=0)"
// @Success      200  {object}  response.ListResult
// @Failure      400  {object}  response.Envelope
// @Router       /supplier [get]
func (h *SupplierHandler) List(c *gin.Context) {
	params, err := pagination.Parse(c)
	if err != nil {
		writeError(c, err)
		return
	}

	items, total, err := h.supplierService.List(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.List(items, total))
}

// Update merges changed supplier fields
// @Summary      Update supplier
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  int                            true  "Supplier ID"
// @Param        payload  body  service.UpdateSupplierRequest  true  "Changed fields"
// @Success      200  {object}  service.SupplierResponse
// @Failure      400  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Router       /supplier/{id} [put]
func (h *SupplierHandler) Update(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		writeError(c, err)
		return
	}

	var req service.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Err("VALIDATION_ERROR", "invalid request payload: "+err.Error()))
		return
	}

	caller, err := resolveCaller(c, h.authService)
	if err != nil {
		writeError(c, err)
		return
	}

	supplier, err := h.supplierService.Update(c.Request.Context(), caller, id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, supplier)
}

// Delete removes a supplier, its association rows and its linked user
// @Summary      Delete supplier
// @Tags         suppliers
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Supplier ID"
// @Success      200  {object}  response.Envelope
// @Failure      403  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Router       /supplier/{id} [delete]
func (h *SupplierHandler) Delete(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		writeError(c, err)
		return
	}

	caller, err := resolveCaller(c, h.authService)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.supplierService.Delete(c.Request.Context(), caller, id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK("supplier deleted"))
}
