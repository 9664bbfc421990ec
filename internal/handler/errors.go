package handler

import (
	"errors"
	"net/http"

	"voicehub/internal/transport/httpdto"
	voicehub_errors "voicehub/pkg/errors"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP statuses and stable error
// codes. Anything unmapped is an internal error; its detail stays out of
// the response body.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, voicehub_errors.ErrNotInVoice):
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("not connected to a voice channel", "NOT_IN_VOICE"))
	case errors.Is(err, voicehub_errors.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
	case errors.Is(err, voicehub_errors.ErrNotFound):
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse("not found", "NOT_FOUND"))
	case errors.Is(err, voicehub_errors.ErrForbidden):
		c.JSON(http.StatusForbidden, httpdto.NewErrorResponse("forbidden", "FORBIDDEN"))
	case errors.Is(err, voicehub_errors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
	case errors.Is(err, voicehub_errors.ErrAlreadyExists):
		c.JSON(http.StatusConflict, httpdto.NewErrorResponse("already exists", "ALREADY_EXISTS"))
	case errors.Is(err, voicehub_errors.ErrConflict):
		c.JSON(http.StatusConflict, httpdto.NewErrorResponse("conflict", "CONFLICT"))
	case errors.Is(err, voicehub_errors.ErrServiceUnavailable):
		c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse("service unavailable", "SERVICE_UNAVAILABLE"))
	default:
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("internal error", "INTERNAL_ERROR"))
	}
}
