package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"inventra/internal/middleware"
	"inventra/internal/model"
	"inventra/internal/repository"
	"inventra/internal/service"
	"inventra/internal/token"
	"inventra/pkg/apperr"
	"inventra/pkg/pagination"
	"inventra/pkg/response"
)

type ProductHandler struct {
	productService service.ProductService
	authService    service.AuthService
	tokens         *token.Manager
}

func NewProductHandler(productService service.ProductService, authService service.AuthService, tokens *token.Manager) *ProductHandler {
	return &ProductHandler{productService: productService, authService: authService, tokens: tokens}
}

// RegisterRoutes binds the product endpoints. Reads are public; mutations
// and history are gated on role at the router, with ownership enforced in
// the service layer.
func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup) {
	mutate := middleware.RequireRole(h.tokens, model.RoleAdmin, model.RoleSupplier)

	products := router.Group("/product")
	{
		products.GET("", h.List)
		products.GET("/:id", h.Get)
		products.GET("/:id/history", middleware.RequireAuth(h.tokens), h.History)
		products.POST("", mutate, h.Create)
		products.PUT("/:id", mutate, h.Update)
		products.DELETE("/:id", mutate, h.Delete)
		products.POST("/batch_create", mutate, h.BatchCreate)
		products.POST("/batch_update", mutate, h.BatchUpdate)
		products.POST("/batch_delete", mutate, h.BatchDelete)
	}
}

// Create adds a new product
// @Summary      Create product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateProductRequest  true  "Product"
// @Success      200  {object}  response.Envelope
// @Failure      400  {object}  response.Envelope
// @Failure      403  {object}  response.Envelope
// @Router       /product [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Err("VALIDATION_ERROR", "invalid request payload: "+err.Error()))
		return
	}

	caller, err := resolveCaller(c, h.authService)
	if err != nil {
		writeError(c, err)
		return
	}

	if _, err := h.productService.Create(c.Request.Context(), caller, req); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.OK("product created"))
}

// BatchCreate adds several products atomically
// @Summary      Batch create products
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.BatchCreateRequest  true  "Products"
// @Success      200  {object}  response.Envelope
// @Failure      400  {object}  response.Envelope
// @Router       /product/batch_create [post]
func (h *ProductHandler) BatchCreate(c *gin.Context) {
	var req service.BatchCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Err("VALIDATION_ERROR", "invalid request payload: "+err.Error()))
		return
	}

	caller, err := resolveCaller(c, h.authService)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.productService.BatchCreate(c.Request.Context(), caller, req.Products); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.OK("products created"))
}

// Get returns one product with its suppliers
// @Summary      Get product
// @Tags         products
// @Produce      json
// @Param        id  path  int  true  "Product ID"
// @Success      200  {object}  service.ProductResponse
// @Failure      404  {object}  response.Envelope
// @Router       /product/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		writeError(c, err)
		return
	}

	product, err := h.productService.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// List returns a filtered, paginated product listing
// @Summary      List products
// @Description  Filter by price range, stock range, category and free-text search; order by price, stock or created_at
// @Tags         products
// @Produce      json
// @Param        min_price  query  number  false  "Minimum price"
// @Param        max_price  query  number  false  "Maximum price"
// @Param        min_stock  query  int     false  "Minimum stock"
// @Param        max_stock  query  int     false  "Maximum stock"
// @Param        category   query  string  false  "Category equality"
// @Param        q          query  string  false  "Substring over name/description"
// @Param        order_by   query  string  false  "price | stock | created_at, optionally suffixed _desc"
// @Param        limit      query  int     false  "Page size (1-100, default 10)"
// @Param        offset     query  int     false  "Offset (>=0)"
// @Success      200  {object}  response.ListResult
// @Failure      400  {object}  response.Envelope
// @Router       /product [get]
func (h *ProductHandler) List(c *gin.Context) {
	filter, err := parseProductFilter(c)
	if err != nil {
		writeError(c, err)
		return
	}

	items, total, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.List(items, total))
}

// Update applies a partial update and records price/stock history
// @Summary      Update product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  int                           true  "Product ID"
// @Param        payload  body  service.UpdateProductRequest  true  "Changed fields"
// @Success      200  {object}  service.ProductResponse
// @Failure      400  {object}  response.Envelope
// @Failure      403  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Router       /product/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		writeError(c, err)
		return
	}

	var req service.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Err("VALIDATION_ERROR", "invalid request payload: "+err.Error()))
		return
	}

	caller, err := resolveCaller(c, h.authService)
	if err != nil {
		writeError(c, err)
		return
	}

	product, err := h.productService.Update(c.Request.Context(), caller, id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// BatchUpdate applies several partial updates atomically
// @Summary      Batch update products
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.BatchUpdateRequest  true  "Products with ids"
// @Success      200  {object}  response.Envelope
// @Failure      400  {object}  response.Envelope
// @Router       /product/batch_update [post]
func (h *ProductHandler) BatchUpdate(c *gin.Context) {
	var req service.BatchUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Err("VALIDATION_ERROR", "invalid request payload: "+err.Error()))
		return
	}

	caller, err := resolveCaller(c, h.authService)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.productService.BatchUpdate(c.Request.Context(), caller, req.Products); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.OK("products updated"))
}

// Delete removes a product together with its history
// @Summary      Delete product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Product ID"
// @Success      200  {object}  response.Envelope
// @Failure      403  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Router       /product/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
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

	if err := h.productService.Delete(c.Request.Context(), caller, id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK("product deleted"))
}

// BatchDelete removes several products atomically
// @Summary      Batch delete products
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.BatchDeleteRequest  true  "Product ids"
// @Success      200  {object}  response.Envelope
// @Failure      400  {object}  response.Envelope
// @Router       /product/batch_delete [post]
func (h *ProductHandler) BatchDelete(c *gin.Context) {
	var req service.BatchDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Err("VALIDATION_ERROR", "invalid request payload: "+err.Error()))
		return
	}

	caller, err := resolveCaller(c, h.authService)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.productService.BatchDelete(c.Request.Context(), caller, req.IDs); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.OK("products deleted"))
}

// History lists a product's price/stock change records, newest first
// @Summary      Product history
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id          path   int     true   "Product ID"
// @Param        start_date  query  string  false  "RFC 3339 lower bound"
// @Param        end_date    query  string  false  "RFC 3339 upper bound"
// @Success      200  {array}   service.HistoryEntry
// @Failure      403  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Router       /product/{id}/history [get]
func (h *ProductHandler) History(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		writeError(c, err)
		return
	}

	from, err := parseTimeQuery(c, "start_date")
	if err != nil {
		writeError(c, err)
		return
	}
	to, err := parseTimeQuery(c, "end_date")
	if err != nil {
		writeError(c, err)
		return
	}

	caller, err := resolveCaller(c, h.authService)
	if err != nil {
		writeError(c, err)
		return
	}

	entries, err := h.productService.History(c.Request.Context(), caller, id, from, to)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func parseTimeQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, apperr.Validation("%s must be an RFC 3339 timestamp", name)
	}
	return &t, nil
}

func parseProductFilter(c *gin.Context) (repository.ProductFilter, error) {
	var filter repository.ProductFilter

	params, err := pagination.Parse(c)
	if err != nil {
		return filter, err
	}
	filter.Limit, filter.Offset = params.Limit, params.Offset

	if raw := c.Query("min_price"); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, apperr.Validation("min_price must be a number")
		}
		filter.MinPrice = &v
	}
	if raw := c.Query("max_price"); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, apperr.Validation("max_price must be a number")
		}
		filter.MaxPrice = &v
	}
	if raw := c.Query("min_stock"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return filter, apperr.Validation("min_stock must be an integer")
		}
		filter.MinStock = &v
	}
	if raw := c.Query("max_stock"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return filter, apperr.Validation("max_stock must be an integer")
		}
		filter.MaxStock = &v
	}
	if raw := c.Query("category"); raw != "" {
		filter.Category = &raw
	}
	filter.Query = c.Query("q")

	if raw := c.Query("order_by"); raw != "" {
		field := strings.TrimSuffix(raw, "_desc")
		switch field {
		case "price", "stock", "created_at":
			filter.OrderBy = field
			filter.Desc = strings.HasSuffix(raw, "_desc")
		default:
			return filter, apperr.Validation("order_by must be one of price, stock, created_at")
		}
	}

	return filter, nil
}
