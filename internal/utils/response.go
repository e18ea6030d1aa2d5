// internal/utils/response.go
package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zksub/zksub-backend/internal/apperrors"
)

// The wire contract uses bare JSON shapes: `{error}` for failures and the
// endpoint-specific shapes for success. There is no response envelope.

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"error": message})
}

// HandleServiceError maps the error taxonomy onto status codes for the
// content and subscription endpoints. The validate-payment endpoint has its
// own {valid:false} shape and does its own mapping.
func HandleServiceError(c *gin.Context, err error) {
	var notFound *apperrors.NotFoundError
	var validation *apperrors.ValidationError
	var storage *apperrors.StorageError
	var external *apperrors.ExternalServiceError

	switch {
	case errors.As(err, &notFound):
		ErrorResponse(c, http.StatusNotFound, notFound.Error())
	case errors.As(err, &validation):
		ErrorResponse(c, http.StatusBadRequest, validation.Error())
	case errors.As(err, &storage):
		ErrorResponse(c, http.StatusInternalServerError, storage.Error())
	case errors.As(err, &external):
		ErrorResponse(c, http.StatusInternalServerError, external.Error())
	default:
		ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
	}
}
