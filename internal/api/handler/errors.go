package handler

import (
	"errors"
	"net/http"

	"reviewhub/internal/api/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// respondError maps service errors onto HTTP statuses. Anything outside
// the taxonomy is a 500 with a generic body; internals never leak to
// the client.
func respondError(c *gin.Context, err error) {
	var fieldErrs service.FieldErrors
	if errors.As(err, &fieldErrs) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrs})
		return
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
	case errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
	case errors.Is(err, service.ErrReviewExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrReviewExists.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// respondBindError turns binding failures into the same field-keyed 400
// body the service layer produces.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fieldErrs := service.FieldErrors{}
		for _, fe := range verrs {
			field := fe.Field()
			fieldErrs[field] = append(fieldErrs[field], bindMessage(fe))
		}
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrs})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}

func bindMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return "value is too long"
	case "min":
		return "value is too small"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "slug":
		return "must contain only lowercase letters, digits, hyphens and underscores"
	default:
		return "invalid value"
	}
}
