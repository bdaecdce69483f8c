package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"inventra/pkg/apperr"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params holds validated limit/offset pagination parameters.
type Params struct {
	Limit  int
	Offset int
}

// Parse extracts limit/offset from query parameters. Out-of-range values
// are a validation error, not silently clamped.
func Parse(c *gin.Context) (Params, error) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))
	if err != nil {
		return Params{}, apperr.Validation("limit must be an integer")
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		return Params{}, apperr.Validation("offset must be an integer")
	}
	return Validate(limit, offset)
}

// Validate checks raw limit/offset values against the allowed ranges.
func Validate(limit, offset int) (Params, error) {
	if limit < 1 || limit > MaxLimit {
		return Params{}, apperr.Validation("limit must be between 1 and %d", MaxLimit)
	}
	if offset < 0 {
		return Params{}, apperr.Validation("offset must not be negative")
	}
	return Params{Limit: limit, Offset: offset}, nil
}
