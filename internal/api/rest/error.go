package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/ds8/tip-allowance/internal/api/shared/errors"
)

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, statusCode int, err *apierrors.APIError) {
	c.JSON(statusCode, apierrors.Envelope(err))
}

// respondBadRequest sends a 400 Bad Request response
func respondBadRequest(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusBadRequest, apierrors.NewBadRequestError(message, details...))
}

// respondNotFound sends a 404 Not Found response
func respondNotFound(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusNotFound, apierrors.NewNotFoundError(message, details...))
}
