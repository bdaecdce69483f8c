package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"inventra/internal/authz"
	"inventra/internal/middleware"
	"inventra/internal/model"
	"inventra/internal/service"
	"inventra/pkg/apperr"
	"inventra/pkg/response"
)

// writeError maps a service error to the envelope and its HTTP status.
func writeError(c *gin.Context, err error) {
	appErr := apperr.From(err)
	c.JSON(appErr.Status, response.Err(appErr.Code, appErr.Message))
}

// idParam parses the :id path parameter.
func idParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, apperr.Validation("id must be a positive integer")
	}
	return uint(id), nil
}

// resolveCaller builds the authorization principal from the identity the
// auth middleware stored on the context.
func resolveCaller(c *gin.Context, auth service.AuthService) (authz.Caller, error) {
	username := c.GetString(middleware.CtxUsername)
	role := model.Role(c.GetString(middleware.CtxRole))
	return auth.ResolveCaller(c.Request.Context(), username, role)
}
