package api

import (
	"errors"
	"net/http"
	"strconv"

	"storefront/internal/service"
	"storefront/internal/upload"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, upload.ErrNotImage),
		errors.Is(err, upload.ErrTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError writes err as a JSON error. Unexpected errors keep their
// underlying message in details.
func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	status := statusFor(err)
	if status != http.StatusInternalServerError {
		var svcErr *service.Error
		if errors.As(err, &svcErr) {
			c.JSON(status, gin.H{"error": svcErr.Message})
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	h.logger.Error(fallback,
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err))
	c.JSON(status, gin.H{
		"error":   fallback,
		"details": err.Error(),
	})
}

func badRequest(c *gin.Context, msg string, err error) {
	body := gin.H{"error": msg}
	if err != nil {
		body["details"] = err.Error()
	}
	c.JSON(http.StatusBadRequest, body)
}

// pathID parses a positive integer path parameter, answering 400 otherwise
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "Invalid "+name, nil)
		return 0, false
	}
	return id, true
}

// queryID parses an optional positive integer query parameter
func queryID(c *gin.Context, name string) (int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "Invalid "+name, nil)
		return 0, false
	}
	return id, true
}
