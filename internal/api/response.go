package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/planbiir/gpxedit/internal/gpx"
	"github.com/planbiir/gpxedit/internal/track"
)

// Response represents a standard API response
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success sends a successful response
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error sends an error response
func Error(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest sends a 400 bad request response
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Fail records err on the context and answers with the status its kind maps to.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	Error(c, StatusFor(err), err.Error())
}

// StatusFor maps an editing error to an HTTP status.
func StatusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, gpx.ErrMalformedInput):
		return http.StatusBadRequest
	case errors.Is(err, track.ErrMissingTimestamp), errors.Is(err, track.ErrUnorderedTimestamps),
		errors.Is(err, track.ErrSpanTooLong):
		return http.StatusUnprocessableEntity
	case errors.Is(err, track.ErrEmptySelection):
		return http.StatusConflict
	case errors.Is(err, track.ErrRangeOutOfBounds), errors.Is(err, track.ErrInvalidFactor):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
